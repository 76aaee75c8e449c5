package command

// History is a fixed capacity ring of commands with a cursor. Entries before the cursor are
// executed and can be undone; entries from the cursor on were rolled back and can be redone.
type History struct {
	arena  []Command
	head   int
	size   int
	cursor int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{arena: make([]Command, capacity)}
}

func (h *History) Cap() int {
	return len(h.arena)
}

func (h *History) Len() int {
	return h.size
}

func (h *History) HasPrev() bool {
	return h.cursor > 0
}

func (h *History) HasNext() bool {
	return h.cursor < h.size
}

// Prev is the command an undo would roll back.
func (h *History) Prev() (Command, bool) {
	if !h.HasPrev() {
		return nil, false
	}
	return h.at(h.cursor - 1), true
}

// Next is the command a redo would execute again.
func (h *History) Next() (Command, bool) {
	if !h.HasNext() {
		return nil, false
	}
	return h.at(h.cursor), true
}

func (h *History) Back() {
	if h.HasPrev() {
		h.cursor--
	}
}

func (h *History) Forward() {
	if h.HasNext() {
		h.cursor++
	}
}

// Push records an executed command. Rolled back entries are discarded and the oldest entry is
// evicted when the ring is full.
func (h *History) Push(cmd Command) {
	for i := h.cursor; i < h.size; i++ {
		h.arena[h.index(i)] = nil
	}
	h.size = h.cursor

	if h.size == len(h.arena) {
		h.arena[h.head] = nil
		h.head = (h.head + 1) % len(h.arena)
		h.size--
		h.cursor--
	}

	h.arena[h.index(h.size)] = cmd
	h.size++
	h.cursor++
}

// Entries returns the commands from oldest to newest.
func (h *History) Entries() []Command {
	out := make([]Command, h.size)
	for i := range out {
		out[i] = h.at(i)
	}
	return out
}

func (h *History) at(i int) Command {
	return h.arena[h.index(i)]
}

func (h *History) index(i int) int {
	return (h.head + i) % len(h.arena)
}
