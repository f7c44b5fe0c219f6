package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Question is one field as presented on a given attempt.
type Question struct {
	Field Field
	// Previous holds the answers given on the last attempt.
	Previous []string
	// Problem is the error the last submission recorded for the field.
	Problem string
}

// Defaults returns the values to pre-fill: the previous answers when there
// are any, the field default otherwise.
func (q Question) Defaults() []string {
	if len(q.Previous) > 0 {
		return q.Previous
	}
	if q.Field.Default != "" {
		return []string{q.Field.Default}
	}
	return nil
}

// PromptDriver asks questions on behalf of a Session. Ask returns the raw
// form values for the field: one for scalar kinds, any number for
// multi-valued ones.
type PromptDriver interface {
	Ask(ctx context.Context, q Question) ([]string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns a PromptDriver backed by survey/v2. Informational
// messages go to out (stdout when nil); opts are passed to every prompt.
func NewSurveyDriver(out io.Writer, opts ...survey.AskOpt) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out, opts: opts}
}

func (d *surveyDriver) Ask(ctx context.Context, q Question) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := d.opts
	if q.Field.Required && q.Field.Kind != KindConfirm {
		opts = append(opts[:len(opts):len(opts)], survey.WithValidator(survey.Required))
	}

	p := surveyPrompt(q)
	switch q.Field.Kind {
	case KindConfirm:
		var out bool
		if err := survey.AskOne(p, &out, opts...); err != nil {
			return nil, translateSurveyErr(err)
		}
		return []string{strconv.FormatBool(out)}, nil
	case KindMultiSelect:
		var out []string
		if err := survey.AskOne(p, &out, opts...); err != nil {
			return nil, translateSurveyErr(err)
		}
		return out, nil
	default:
		var out string
		if err := survey.AskOne(p, &out, opts...); err != nil {
			return nil, translateSurveyErr(err)
		}
		if q.Field.Multiple && q.Field.Kind == KindInput {
			return splitLines(out), nil
		}
		return []string{out}, nil
	}
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// surveyPrompt builds the survey prompt for q. Multi-valued text fields use a
// multiline editor with one value per line.
func surveyPrompt(q Question) survey.Prompt {
	field := q.Field
	message := field.Message()
	help := questionHelp(q)
	defaults := q.Defaults()

	switch field.Kind {
	case KindPassword:
		return &survey.Password{Message: message, Help: help}

	case KindConfirm:
		p := &survey.Confirm{Message: message, Help: help}
		if len(defaults) > 0 {
			p.Default, _ = strconv.ParseBool(defaults[0])
		}
		return p

	case KindSelect:
		p := &survey.Select{Message: message, Help: help, Options: field.Options}
		if picked := knownOptions(field.Options, defaults); len(picked) > 0 {
			p.Default = picked[0]
		}
		return p

	case KindMultiSelect:
		p := &survey.MultiSelect{Message: message, Help: help, Options: field.Options}
		if picked := knownOptions(field.Options, defaults); len(picked) > 0 {
			p.Default = picked
		}
		return p
	}

	if field.Multiple {
		return &survey.Multiline{
			Message: message + " (one per line)",
			Help:    help,
			Default: strings.Join(defaults, "\n"),
		}
	}
	p := &survey.Input{Message: message, Help: help}
	if len(defaults) > 0 {
		p.Default = defaults[0]
	}
	return p
}

func questionHelp(q Question) string {
	help := strings.TrimSpace(q.Field.Help)
	problem := strings.TrimSpace(q.Problem)
	switch {
	case problem == "":
		return help
	case help == "":
		return "Rejected: " + problem
	default:
		return "Rejected: " + problem + "\n" + help
	}
}

// knownOptions keeps the values that are valid options; survey rejects a
// default outside the option list.
func knownOptions(options, values []string) []string {
	valid := make(map[string]struct{}, len(options))
	for _, option := range options {
		valid[option] = struct{}{}
	}
	var out []string
	for _, value := range values {
		if _, ok := valid[value]; ok {
			out = append(out, value)
		}
	}
	return out
}

func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
