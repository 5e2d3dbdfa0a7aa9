package runtime

import "fmt"

// FormatPrompt is the single template used at every cursor position.
func FormatPrompt(name, previous, skipToken string) string {
	return fmt.Sprintf("%s\nПредыдущее значение: %s\nВведите новое значение или %s", name, previous, skipToken)
}
