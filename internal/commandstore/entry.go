package commandstore

// CommandEntry is a titled shell command line. Entries have no identity beyond their position.
type CommandEntry struct {
	Title   string `json:"title" yaml:"title"`
	Command string `json:"command" yaml:"command"`
}

// CommandList is the ordered sequence of entries; persisted order equals display order.
type CommandList []CommandEntry

// Len reports the number of entries.
func (list CommandList) Len() int {
	return len(list)
}

// Last returns the final entry and whether the list was non-empty.
func (list CommandList) Last() (CommandEntry, bool) {
	if len(list) == 0 {
		return CommandEntry{}, false
	}
	return list[len(list)-1], true
}
