package grammar

// Flavor names the grammar class a GrammarConfig targets. LALR(1) exists
// as a value here only so %grammar_type 'lalr(1)' can be represented; per
// spec.md §9's Open Question decision, no LALR(1) table constructor
// consumes it anywhere in this repo -- see lookahead.ErrLALRUnsupported.
type Flavor int

const (
	LLk Flavor = iota
	LALR1
)

func (f Flavor) String() string {
	switch f {
	case LLk:
		return "LL(k)"
	case LALR1:
		return "LALR(1)"
	default:
		return "Flavor(?)"
	}
}

// GrammarConfig bundles a canonicalised CFG with everything downstream
// code emitters need: the lookahead size (initially 1, re-tightened after
// DFA synthesis adopts the max k across all built DFAs), scanner configs,
// user-type aliases, per-symbol type overrides, and descriptive metadata.
type GrammarConfig struct {
	CFG    *CFG
	K      int
	Scanners []ScannerConfig

	UserTypeAliases  map[string]string
	NonTerminalTypes map[string]string
	TerminalTypes    map[string]string

	Title   *string
	Comment *string
	Flavor  Flavor
}

// NewGrammarConfig returns a GrammarConfig wrapping cfg, defaulting K to 1
// and flavor to LLk, with a single initial scanner (index 0) already
// present.
func NewGrammarConfig(cfg *CFG) *GrammarConfig {
	return &GrammarConfig{
		CFG:              cfg,
		K:                1,
		Scanners:         []ScannerConfig{NewScannerConfig("INITIAL")},
		UserTypeAliases:  map[string]string{},
		NonTerminalTypes: map[string]string{},
		TerminalTypes:    map[string]string{},
		Flavor:           LLk,
	}
}

// ResolveUserType follows one level of %user_type alias substitution, used
// wherever ": Alias" appears on a symbol.
func (gc *GrammarConfig) ResolveUserType(alias string) string {
	if real, ok := gc.UserTypeAliases[alias]; ok {
		return real
	}
	return alias
}
