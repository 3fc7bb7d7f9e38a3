package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/ai"
)

const (
	DefaultJDKeywordsLimit = 20
	DefaultMustHaveLimit   = 10
)

// limitFilter keeps the first limit entries of one keyword list.
type limitFilter struct {
	toggle
	name     string
	fallback int
	limit    int
	pick     func(cfg *Config) int
	list     func(e *ai.Extraction) *[]string
}

// NewJDLimit creates a filter that keeps only the first configured number of JD keywords.
func NewJDLimit() Filter {
	return &limitFilter{
		name:     "jd_limit",
		fallback: DefaultJDKeywordsLimit,
		pick:     func(cfg *Config) int { return cfg.JDKeywordsLimit },
		list:     func(e *ai.Extraction) *[]string { return &e.JDKeywords },
	}
}

// NewMustHaveLimit creates a filter that keeps only the first configured number of must-have keywords.
func NewMustHaveLimit() Filter {
	return &limitFilter{
		name:     "must_have_limit",
		fallback: DefaultMustHaveLimit,
		pick:     func(cfg *Config) int { return cfg.MustHaveLimit },
		list:     func(e *ai.Extraction) *[]string { return &e.MustHaveKeywords },
	}
}

func (f *limitFilter) Name() string { return f.name }

func (f *limitFilter) Validate(cfg *Config) error {
	f.limit = f.fallback
	if cfg == nil {
		return nil
	}

	configured := f.pick(cfg)
	if configured < 0 {
		return fmt.Errorf("limit must not be negative, got %d", configured)
	}
	if configured > 0 {
		f.limit = configured
	}
	return nil
}

func (f *limitFilter) Apply(_ context.Context, deps Deps, e *ai.Extraction) (Step, error) {
	if f.limit == 0 {
		f.limit = f.fallback
	}

	list := f.list(e)
	initial := len(*list)
	if initial <= f.limit {
		return Step{Initial: initial, Left: initial}, nil
	}

	cut := (*list)[f.limit:]
	*list = append([]string(nil), (*list)[:f.limit]...)

	if deps.Logger != nil {
		deps.Logger.Debug("truncating keyword list",
			zap.String("name", f.name),
			zap.Int("limit", f.limit),
			zap.Strings("dropped_keywords", cut),
		)
	}

	return Step{Initial: initial, Dropped: len(cut), Left: f.limit}, nil
}

func (f *limitFilter) Status() Status {
	limit := f.limit
	if limit == 0 {
		limit = f.fallback
	}
	return Status{
		Name:    f.name,
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"limit": strconv.Itoa(limit)},
	}
}
