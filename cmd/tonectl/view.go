package main

import (
	"fmt"
	"io"

	"github.com/yanqian/tone-changer/internal/interface/form"
)

// terminalView renders the form controller onto a terminal: the final
// result goes to stdout, progress and errors to stderr.
type terminalView struct {
	out    io.Writer
	errOut io.Writer
}

func newTerminalView(out, errOut io.Writer) *terminalView {
	return &terminalView{out: out, errOut: errOut}
}

func (v *terminalView) SetFormEnabled(bool) {}

func (v *terminalView) SetOtherToneField(bool, bool) {}

func (v *terminalView) ClearOtherTone() {}

func (v *terminalView) SetSubmitState(enabled bool, label string) {
	if !enabled {
		fmt.Fprintln(v.errOut, label)
	}
}

func (v *terminalView) SetBusy(bool) {}

func (v *terminalView) SetResult(text string) {
	switch text {
	case form.MsgResultPlaceholder, form.MsgProcessing:
		return
	case form.MsgRewriteFailed:
		fmt.Fprintln(v.errOut, text)
		return
	}
	fmt.Fprintln(v.out, text)
}

func (v *terminalView) SetError(text string) {
	if text != "" {
		fmt.Fprintln(v.errOut, text)
	}
}

var _ form.View = (*terminalView)(nil)
