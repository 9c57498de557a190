package form

import (
	"context"
	"errors"
	"strings"
)

// OtherTone is the preset that switches the form to a free-text tone.
const OtherTone = "Other"

// Messages shown by the form.
const (
	MsgResultPlaceholder = "Rewrite will appear here..."
	MsgProcessing        = "Processing..."
	MsgNoRewrite         = "No rewrite returned."
	MsgRewriteFailed     = "Rewrite failed."
	MsgMissingOtherTone  = "Please specify the custom tone."
	MsgMissingTone       = "Please choose a tone."
	MsgMissingText       = "Please enter some text to rewrite."
	MsgConfigError       = "Configuration error: the tone changer is not available right now."
	LabelSubmit          = "Change Tone"
	LabelSubmitBusy      = "Working..."
)

var (
	// ErrFormDisabled is returned by Submit when the form could not be configured.
	ErrFormDisabled = errors.New("form disabled: relay endpoint or secret not configured")
	// ErrMissingTone is returned when no tone could be resolved.
	ErrMissingTone = errors.New("tone is required")
	// ErrMissingText is returned when the text is blank.
	ErrMissingText = errors.New("text is required")
)

// View is the surface the controller renders into.
type View interface {
	SetFormEnabled(enabled bool)
	SetOtherToneField(visible, required bool)
	ClearOtherTone()
	// SetSubmitState disables the submit control and relabels it while busy.
	SetSubmitState(enabled bool, label string)
	SetBusy(busy bool)
	SetResult(text string)
	SetError(text string)
}

// Rewriter performs the round trip to the relay.
type Rewriter interface {
	Rewrite(ctx context.Context, text, tone string) (RewriteResult, error)
}

// Form is the state of the form at submission time.
type Form struct {
	Text      string
	Tone      string
	OtherTone string
}

// Controller drives a View from user actions.
type Controller struct {
	client   Rewriter
	view     View
	disabled bool
}

// NewController binds the controller to view. A config without endpoint or
// secret leaves the form disabled with a configuration error shown.
func NewController(cfg Config, client Rewriter, view View) *Controller {
	c := &Controller{client: client, view: view}
	if cfg.Validate() != nil || client == nil {
		c.disabled = true
		view.SetFormEnabled(false)
		view.SetError(MsgConfigError)
		return c
	}
	view.SetFormEnabled(true)
	view.SetSubmitState(true, LabelSubmit)
	view.SetResult(MsgResultPlaceholder)
	return c
}

// Disabled reports whether the form refused to start.
func (c *Controller) Disabled() bool {
	return c.disabled
}

// SelectTone reacts to a change of the tone preset.
func (c *Controller) SelectTone(tone string) {
	if tone == OtherTone {
		c.view.SetOtherToneField(true, true)
		return
	}
	c.view.SetOtherToneField(false, false)
	c.view.ClearOtherTone()
}

// Submit validates the form, performs one call to the relay and renders the
// outcome. The submit control is re-enabled on every path.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	if c.disabled {
		return ErrFormDisabled
	}

	tone := strings.TrimSpace(f.Tone)
	if tone == OtherTone {
		tone = strings.TrimSpace(f.OtherTone)
		if tone == "" {
			return c.reject(MsgMissingOtherTone, ErrMissingTone)
		}
	}
	if tone == "" {
		return c.reject(MsgMissingTone, ErrMissingTone)
	}
	if strings.TrimSpace(f.Text) == "" {
		return c.reject(MsgMissingText, ErrMissingText)
	}

	c.view.SetError("")
	c.view.SetSubmitState(false, LabelSubmitBusy)
	c.view.SetBusy(true)
	c.view.SetResult(MsgProcessing)
	defer func() {
		c.view.SetSubmitState(true, LabelSubmit)
		c.view.SetBusy(false)
	}()

	result, err := c.client.Rewrite(ctx, f.Text, tone)
	if err != nil {
		c.view.SetError("An error occurred: " + err.Error())
		c.view.SetResult(MsgRewriteFailed)
		return err
	}
	if result.RewrittenText == "" {
		c.view.SetResult(MsgNoRewrite)
		return nil
	}
	c.view.SetResult(result.RewrittenText)
	return nil
}

func (c *Controller) reject(message string, err error) error {
	c.view.SetError(message)
	c.view.SetResult(MsgResultPlaceholder)
	return err
}
