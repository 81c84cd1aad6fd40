package headless

import (
	"fmt"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/format"
)

// Output handles console output for headless mode
type Output struct {
	formatter *format.Formatter
}

// NewOutput creates a new output handler
func NewOutput() *Output {
	return &Output{formatter: format.NewFormatter(100)}
}

func (o *Output) UserPrompt(prompt string) {
	fmt.Println(o.formatter.FormatMessage(chat.NewUserMessage(prompt)))
}

func (o *Output) Response(msg chat.Message) {
	fmt.Println(o.formatter.FormatMessage(msg))
}
