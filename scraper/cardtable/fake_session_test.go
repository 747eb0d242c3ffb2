package cardtable

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// fakeSession scripts PageSession behavior for tests. Tooltip text is keyed
// by the trigger selector that was last clicked.
type fakeSession struct {
	navigateErr error
	tableHTML   string

	tooltips map[string]string // trigger selector -> tooltip text

	lastClicked string
	clicks      []string
	escapes     int
}

func (f *fakeSession) Navigate(_ context.Context, _ string) error {
	return f.navigateErr
}

func (f *fakeSession) OuterHTML(_ context.Context, _ string) (string, error) {
	if f.tableHTML == "" {
		return "", errors.New("no table on page")
	}
	return f.tableHTML, nil
}

func (f *fakeSession) Evaluate(_ context.Context, _ string, _ any) error {
	return nil
}

func (f *fakeSession) Click(_ context.Context, selector string) error {
	if _, ok := f.tooltips[selector]; !ok {
		return errors.New("no such trigger: " + selector)
	}
	f.lastClicked = selector
	f.clicks = append(f.clicks, selector)
	return nil
}

func (f *fakeSession) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	if !strings.Contains(selector, "tooltip") {
		return errors.New("unexpected selector: " + selector)
	}
	if f.tooltips[f.lastClicked] == "" {
		return errors.New("tooltip never became visible")
	}
	return nil
}

func (f *fakeSession) Text(_ context.Context, _ string) (string, error) {
	text := f.tooltips[f.lastClicked]
	if text == "" {
		return "", errors.New("tooltip not open")
	}
	return text, nil
}

func (f *fakeSession) PressEscape(_ context.Context) error {
	f.escapes++
	f.lastClicked = ""
	return nil
}

func (f *fakeSession) Screenshot(_ context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (f *fakeSession) Close() {}

func triggerSelector(rowIndex, columnIndex int) string {
	return fmt.Sprintf("table tbody tr:nth-child(%d) td:nth-child(%d) button", rowIndex, columnIndex+1)
}
