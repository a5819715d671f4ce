package term

import "strings"

const (
	bracketedPasteOnSeq  = "\x1b[200~"
	bracketedPasteOffSeq = "\x1b[201~"
)

// PasteText strips bracketed-paste markers and control characters from a
// pasted payload. ok is false when nothing printable remains.
func PasteText(content string) (string, bool) {
	content = strings.ReplaceAll(content, bracketedPasteOnSeq, "")
	content = strings.ReplaceAll(content, bracketedPasteOffSeq, "")
	out := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, content)
	out = strings.TrimSpace(out)
	return out, out != ""
}
