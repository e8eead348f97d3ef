package chat

import (
	"fmt"
)

func (m chatModel) View() string {
	return fmt.Sprintf(
		"%s\n\n%s\n%s",
		m.viewport.View(),
		m.textarea.View(),
		m.statusBar.View(),
	)
}
