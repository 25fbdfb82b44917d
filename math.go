package mdforge

import (
	"github.com/mdforge/mdforge/internal/assets"
	"github.com/mdforge/mdforge/internal/mathext"
)

// ensureMathSupport wires math rendering into the configuration when the
// KaTeX engine is requested: it appends the math extension unless one is
// already present, and appends the inlined KaTeX stylesheet to the
// document CSS exactly once per Config instance.
//
// Calling it again on the same instance is a no-op, so retried or chained
// merges never duplicate the stylesheet or the extension.
func ensureMathSupport(cfg *Config) error {
	if cfg.MathEngine != MathEngineKatex {
		return nil
	}

	if !hasMathExtension(cfg.Extensions) {
		cfg.Extensions = append(cfg.Extensions, newMathExtension(cfg.MathEngineOptions))
	}

	if cfg.mathApplied {
		return nil
	}
	css, err := assets.MathStylesheet()
	if err != nil {
		return err
	}
	if cfg.CSS != "" {
		cfg.CSS += "\n"
	}
	cfg.CSS += css
	cfg.mathApplied = true
	return nil
}

// newMathExtension builds the math extension descriptor from the
// configured engine options.
func newMathExtension(opts MathOptions) Extension {
	return Extension{
		Name:     "math",
		Provides: []string{CapabilityInlineMath, CapabilityBlockMath},
		Extender: mathext.New(mathext.Options{
			InlineDollar: boolValue(opts.InlineDollar, true),
			BlockDollar:  boolValue(opts.BlockDollar, true),
			FencedBlocks: boolValue(opts.FencedBlocks, true),
			InlineClass:  opts.InlineClass,
			DisplayClass: opts.DisplayClass,
		}),
	}
}
