// Package editor defines the host capabilities the scaffolding engine relies on.
package editor

import (
	"context"
	"errors"
	"regexp"

	"github.com/olimci/dtpl/pkg/config"
)

var ErrDeclined = errors.New("declined by user")

// Editor is the host surface: file access, prompts and the notification channel. The engine
// is written against this interface only.
type Editor interface {
	RootPath() string
	EOL() string
	Configuration() *config.Configuration

	FileContent(path string) (string, error)
	SetFileContent(ctx context.Context, path, content string) error
	OpenFile(ctx context.Context, path string) error
	CloseFile(ctx context.Context, path string) error
	IsOpened(path string) bool

	Confirm(ctx context.Context, message string) (bool, error)

	Debug(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string, err error)
}

var scriptFile = regexp.MustCompile(`(?i)\.[jt]sx?$`)

// IsScriptFile reports whether path is a JavaScript or TypeScript source file.
func IsScriptFile(path string) bool {
	return scriptFile.MatchString(path)
}
