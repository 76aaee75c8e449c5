package dtpl

// Config is what a configuration folder provides once loaded.
type Config interface {
	// Templates lists the templates in declaration order.
	Templates(src *Source) ([]Template, error)
	// Global is data shared by every template of the folder.
	Global(src *Source) (Data, error)
	// Local is extra data for the template that matched.
	Local(t *Template, src *Source) (Data, error)
}

// Funcs builds a Config from plain functions. Nil functions yield nothing.
type Funcs struct {
	TemplatesFunc func(src *Source) ([]Template, error)
	GlobalFunc    func(src *Source) (Data, error)
	LocalFunc     func(t *Template, src *Source) (Data, error)
}

func (f Funcs) Templates(src *Source) ([]Template, error) {
	if f.TemplatesFunc == nil {
		return nil, nil
	}
	return f.TemplatesFunc(src)
}

func (f Funcs) Global(src *Source) (Data, error) {
	if f.GlobalFunc == nil {
		return nil, nil
	}
	return f.GlobalFunc(src)
}

func (f Funcs) Local(t *Template, src *Source) (Data, error) {
	if f.LocalFunc == nil {
		return nil, nil
	}
	return f.LocalFunc(t, src)
}
