package nav

// KeyType identifies a decoded key event.
type KeyType int

const (
	// KeyRune carries a printable character in Key.Rune.
	KeyRune KeyType = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTop
	KeyBottom
	KeyPageUp
	KeyPageDown
	KeySearch
	KeyNextMatch
	KeyPrevMatch
	KeyRefresh
	KeyYank
	KeySort
	KeyQuit
)

// Key is one input event.
type Key struct {
	Type KeyType
	Rune rune
}

// Rune returns a printable character event.
func Rune(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

// Press returns a non-character event.
func Press(t KeyType) Key {
	return Key{Type: t}
}

// browseRunes gives characters their Browse meaning when they arrive as
// plain runes rather than decoded commands.
var browseRunes = map[rune]KeyType{
	'/': KeySearch,
	'n': KeyNextMatch,
	'N': KeyPrevMatch,
	'q': KeyQuit,
}
