package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
)

// Send delivers m to the daemon listening on socketFile and waits for its reply.
func Send(ctx context.Context, socketFile string, m Message) (Reply, error) {
	if socketFile == "" {
		socketFile = DefaultSocketFile()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketFile)
	if err != nil {
		return Reply{}, fmt.Errorf("is the daemon running? %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := json.NewEncoder(conn).Encode(m); err != nil {
		return Reply{}, fmt.Errorf("sending %s: %w", m.Type, err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Reply{}, fmt.Errorf("reading reply: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return Reply{}, err
		}
		return Reply{}, fmt.Errorf("daemon closed the connection")
	}

	var reply Reply
	if err := json.Unmarshal(scanner.Bytes(), &reply); err != nil {
		return Reply{}, fmt.Errorf("invalid reply: %w", err)
	}
	return reply, nil
}
