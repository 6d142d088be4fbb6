// Package bulkfs implements the editor-mediated bulk rename and bulk remove
// core: materialize a file set into an editable document, hand it to an
// external editor, diff the result, confirm, and apply the diff as
// file-system mutations.
package bulkfs

// Kind classifies the file-system object an Entry refers to.
type Kind uint8

// Kind values. KindUnknown is the zero value.
const (
	KindUnknown Kind = iota
	KindDir
	KindFile
	KindSymlink
	KindSocket
	KindFifo
	KindCharDevice
	KindBlockDevice
	KindDoor
	KindWhiteout
)

// suffix returns the cosmetic trailing character appended to a remove-mode
// document line for this kind, or 0 if none applies.
func (k Kind) suffix() byte {
	switch k {
	case KindDir:
		return '/'
	case KindSymlink:
		return '@'
	case KindSocket:
		return '='
	case KindFifo:
		return '|'
	case KindUnknown, KindDoor, KindWhiteout:
		return '?'
	default:
		return 0
	}
}

// removeSuffixes is the full set of cosmetic suffix characters a remove-mode
// document line may carry. Suffix is never part of an entry's identity.
const removeSuffixes = "/@=|?"

// Entry is a single participant in a bulk operation. Identity is its
// position in the owning EntrySequence, never its Display path.
type Entry struct {
	// Display is the text written to the document: absolute or relative
	// exactly as supplied or discovered.
	Display string
	Kind    Kind
	// CWDRelative records whether this entry's path resolves inside the
	// current workspace directory, used by the rename flow to decide
	// whether a post-operation directory reload is warranted.
	CWDRelative bool
}

// EntrySequence is an ordered sequence of Entry. Position is identity; the
// Differ never reorders it.
type EntrySequence []Entry

// stripSuffix removes a single trailing cosmetic suffix character from line,
// if present. It never alters identity, only presentation.
func stripSuffix(line string) string {
	if line == "" {
		return line
	}
	last := line[len(line)-1]
	for i := 0; i < len(removeSuffixes); i++ {
		if removeSuffixes[i] == last {
			return line[:len(line)-1]
		}
	}
	return line
}
