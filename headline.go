package orgf

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// todoKeywords is the active TODO keyword set. The first "#+TODO:" line of
// a buffer replaces the defaults; later lines extend it.
type todoKeywords struct {
	todo     []string
	done     []string
	inBuffer bool
}

func defaultTodoKeywords() todoKeywords {
	return todoKeywords{todo: []string{"TODO"}, done: []string{"DONE"}}
}

func (k *todoKeywords) lookup(word string) TodoType {
	for _, w := range k.todo {
		if w == word {
			return TodoOpen
		}
	}
	for _, w := range k.done {
		if w == word {
			return TodoDone
		}
	}
	return TodoNone
}

// addSequence applies a "#+TODO: A B | C D" value. Without a bar the last
// word is the done keyword.
func (k *todoKeywords) addSequence(value string) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return
	}
	if !k.inBuffer {
		k.todo, k.done = nil, nil
		k.inBuffer = true
	}
	bar := -1
	for i, f := range fields {
		if f == "|" {
			bar = i
			break
		}
	}
	var todo, done []string
	switch {
	case bar >= 0:
		todo, done = fields[:bar], fields[bar+1:]
	case len(fields) == 1:
		todo = fields
	default:
		todo, done = fields[:len(fields)-1], fields[len(fields)-1:]
	}
	for _, w := range todo {
		k.todo = append(k.todo, stripFastKey(w))
	}
	for _, w := range done {
		k.done = append(k.done, stripFastKey(w))
	}
}

// stripFastKey drops a selection key suffix such as "(t)" or "(w@/!)".
func stripFastKey(word string) string {
	if i := strings.IndexByte(word, '('); i > 0 && strings.HasSuffix(word, ")") {
		return word[:i]
	}
	return word
}

func isTodoKeyword(key string) bool {
	switch strings.ToUpper(key) {
	case "TODO", "SEQ_TODO", "TYP_TODO":
		return true
	}
	return false
}

// parseHeadline splits the text after the stars into keyword, priority,
// COMMENT marker, title and tags.
func parseHeadline(level int, text string, keywords *todoKeywords) *Headline {
	h := &Headline{Level: level}
	rest := text
	if word, after := firstWord(rest); word != "" {
		if t := keywords.lookup(word); t != TodoNone {
			h.Keyword, h.Todo = word, t
			rest = after
		}
	}
	if len(rest) >= 4 && strings.HasPrefix(rest, "[#") {
		r, size := utf8.DecodeRuneInString(rest[2:])
		end := 2 + size
		if r != utf8.RuneError && !unicode.IsSpace(r) && end < len(rest) && rest[end] == ']' &&
			(end+1 == len(rest) || rest[end+1] == ' ' || rest[end+1] == '\t' || rest[end+1] == ':') {
			h.Priority = string(r)
			rest = strings.TrimLeft(rest[end+1:], " \t")
		}
	}
	if word, after := firstWord(rest); word == "COMMENT" {
		h.Commented = true
		rest = after
	}
	rest, h.Tags = splitTags(rest)
	h.RawTitle = strings.TrimSpace(rest)
	h.Title = ResolveInline(h.RawTitle)
	h.Archived = h.HasTag("ARCHIVE")
	return h
}

func firstWord(s string) (string, string) {
	end := strings.IndexAny(s, " \t")
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimLeft(s[end:], " \t")
}

// splitTags removes the trailing tag groups. Adjacent groups separated by
// blanks ("  :a:  :b:") merge, empty segments are skipped and duplicate tags
// keep their first position.
func splitTags(s string) (string, []string) {
	var groups [][]string
	for {
		s = strings.TrimRight(s, " \t")
		start := strings.LastIndexAny(s, " \t")
		group, ok := tagGroup(s[start+1:])
		if !ok {
			break
		}
		groups = append(groups, group)
		if start < 0 {
			s = ""
			break
		}
		s = s[:start]
	}
	var tags []string
	for i := len(groups) - 1; i >= 0; i-- {
		for _, tag := range groups[i] {
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	return s, tags
}

// tagGroup splits ":a:b:" into its tag names. A group without any name is
// not a tag group.
func tagGroup(word string) ([]string, bool) {
	if len(word) < 3 || word[0] != ':' || word[len(word)-1] != ':' {
		return nil, false
	}
	var tags []string
	for _, tag := range strings.Split(word[1:len(word)-1], ":") {
		if tag == "" {
			continue
		}
		if !isTagName(tag) {
			return nil, false
		}
		tags = append(tags, tag)
	}
	return tags, len(tags) > 0
}

func isTagName(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '@' && r != '#' && r != '%' {
			return false
		}
	}
	return true
}

// parsePlanning reads the SCHEDULED/DEADLINE/CLOSED timestamps of a
// planning line. Unknown trailing content is ignored.
func parsePlanning(text string) *Planning {
	p := &Planning{}
	rest := strings.TrimSpace(text)
	for rest != "" {
		var slot **Timestamp
		switch {
		case hasFoldPrefix(rest, "SCHEDULED:"):
			slot, rest = &p.Scheduled, rest[len("SCHEDULED:"):]
		case hasFoldPrefix(rest, "DEADLINE:"):
			slot, rest = &p.Deadline, rest[len("DEADLINE:"):]
		case hasFoldPrefix(rest, "CLOSED:"):
			slot, rest = &p.Closed, rest[len("CLOSED:"):]
		default:
			return p
		}
		rest = strings.TrimLeft(rest, " \t")
		ts, n, ok := scanTimestamp(rest)
		if !ok {
			return p
		}
		*slot = ts
		rest = strings.TrimLeft(rest[n:], " \t")
	}
	return p
}

// parseClock reads "CLOCK: [start]--[end] =>  1:30".
func parseClock(text string) *Clock {
	c := &Clock{}
	ts, n, ok := scanTimestamp(text)
	if !ok {
		return c
	}
	c.Start = ts
	rest := strings.TrimSpace(text[n:])
	if strings.HasPrefix(rest, "=>") {
		c.Duration = strings.TrimSpace(rest[2:])
	}
	return c
}

// parseProperty reads a ":KEY: value" drawer line.
func parseProperty(t string) (*NodeProperty, bool) {
	if len(t) < 3 || t[0] != ':' {
		return nil, false
	}
	end := strings.IndexByte(t[1:], ':')
	if end <= 0 {
		return nil, false
	}
	key := t[1 : end+1]
	if strings.ContainsAny(key, " \t") {
		return nil, false
	}
	return &NodeProperty{Key: key, Value: strings.TrimSpace(t[end+2:])}, true
}
