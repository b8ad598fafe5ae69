package interceptors

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/journal"
)

// Preset names accepted by Presets.
const (
	PresetLogging   = "logging"
	PresetTracing   = "tracing"
	PresetJournal   = "journal"
	PresetPublish   = "publish"
	PresetNormalize = "normalize"
	PresetBearer    = "bearer"
)

// Deps carries what the named presets need.
type Deps struct {
	Client    string
	Logger    httpclient.Logger
	Tracer    trace.Tracer
	Journal   journal.Store
	Publisher Emitter
	Token     TokenSource
}

// Presets chains the named hook sets in the given order. No names yields nil,
// which keeps every client default.
func Presets(names []string, deps Deps) (*httpclient.HandlerOverrides, error) {
	var sets []httpclient.HandlerOverrides
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case PresetLogging:
			sets = append(sets, Logging(deps.Logger))
		case PresetTracing:
			sets = append(sets, Tracing(deps.Tracer))
		case PresetNormalize:
			sets = append(sets, NormalizeErrors())
		case PresetJournal:
			if deps.Journal == nil {
				return nil, fmt.Errorf("interceptors: preset %q needs a journal store", name)
			}
			sets = append(sets, Journal(deps.Journal, deps.Client, deps.Logger))
		case PresetPublish:
			if deps.Publisher == nil {
				return nil, fmt.Errorf("interceptors: preset %q needs a publisher", name)
			}
			sets = append(sets, Publish(deps.Publisher, deps.Client, deps.Logger))
		case PresetBearer:
			if deps.Token == nil {
				return nil, fmt.Errorf("interceptors: preset %q needs a token source", name)
			}
			sets = append(sets, BearerToken(deps.Token))
		default:
			return nil, fmt.Errorf("interceptors: unknown preset %q", raw)
		}
	}
	if len(sets) == 0 {
		return nil, nil
	}
	return Chain(sets...), nil
}
