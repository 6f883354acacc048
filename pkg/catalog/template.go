package catalog

import (
	"strings"

	"github.com/aretw0/ussdsim/pkg/domain"
)

// Template placeholders.
const (
	VarOperator = "${operator}"
	VarCode     = "${code}"
	VarKey      = "${key}"
)

// Template is a screen before operator substitution.
type Template struct {
	Message string          `yaml:"message" json:"message"`
	Options []domain.Option `yaml:"options,omitempty" json:"options,omitempty"`
}

type vars struct {
	operator string
	code     domain.DialCode
	key      string
}

func (v vars) replacer() *strings.Replacer {
	return strings.NewReplacer(
		VarOperator, v.operator,
		VarCode, string(v.code),
		VarKey, v.key,
	)
}

// render substitutes placeholders in the message and option texts.
func (t Template) render(sessionID string, v vars) domain.Response {
	r := v.replacer()
	opts := make([]domain.Option, len(t.Options))
	for i, o := range t.Options {
		opts[i] = domain.Option{Key: o.Key, Text: r.Replace(o.Text)}
	}
	return domain.NewResponse(sessionID, r.Replace(t.Message), opts...)
}

var (
	fallbackRoot = Template{
		Message: "USSD code ${code} executed successfully on ${operator} network.\n\n" +
			"Service not available at the moment.\nPlease try again later.",
	}
	fallbackShallow = Template{
		Message: "Option ${key} selected.\n\nFeature coming soon!\n\n" +
			"Thank you for using ${operator} services.",
	}
	fallbackDeep = Template{
		Message: "Transaction processed successfully.\n\n" +
			"Your request (option ${key}) has been completed.\n\n" +
			"Thank you for using ${operator} services.",
	}
)
