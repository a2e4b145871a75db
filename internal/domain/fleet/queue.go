package fleet

// CommandQueue is a fleet's FIFO of pending commands. The head is the current
// command. Commands leave the queue only from the head, and only when a
// completion of the same kind is reported; the queue is never reordered.
type CommandQueue struct {
	commands []Command
}

// NewCommandQueue creates an empty queue
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Enqueue appends commands at the tail
func (q *CommandQueue) Enqueue(cmds ...Command) {
	q.commands = append(q.commands, cmds...)
}

// Current returns the head command, or nil when the queue is empty
func (q *CommandQueue) Current() Command {
	if len(q.commands) == 0 {
		return nil
	}
	return q.commands[0]
}

// CompleteHead pops the head if it is of the given kind and reports whether
// anything was removed
func (q *CommandQueue) CompleteHead(kind CommandKind) bool {
	head := q.Current()
	if head == nil || head.Kind() != kind {
		return false
	}
	q.commands[0] = nil
	q.commands = q.commands[1:]
	return true
}

// Clear drops every pending command
func (q *CommandQueue) Clear() {
	q.commands = nil
}

// Len returns the number of pending commands
func (q *CommandQueue) Len() int {
	return len(q.commands)
}

// IsEmpty checks if nothing is pending
func (q *CommandQueue) IsEmpty() bool {
	return len(q.commands) == 0
}

// Commands returns a copy of the pending commands, head first
func (q *CommandQueue) Commands() []Command {
	out := make([]Command, len(q.commands))
	copy(out, q.commands)
	return out
}
