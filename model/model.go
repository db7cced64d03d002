// Package model holds the data records shared by every stage of the
// pipeline: parsed files, imports, exports, components, hook call sites,
// state bindings, the variable-stability table, and diagnostics.
//
// A ParsedFile and everything it owns is published once by the inspector
// and treated as immutable from then on; downstream packages only read it.
package model

// ImportKind classifies how an import specifier binds into the importing
// file's scope.
type ImportKind string

const (
	ImportDefault   ImportKind = "default"
	ImportNamed     ImportKind = "named"
	ImportNamespace ImportKind = "namespace"
	ImportReExport  ImportKind = "re-export"
)

// Import is one import declaration (or re-export) in a file.
type Import struct {
	SourceSpecifier string     `yaml:"sourceSpecifier"`
	LocalBindings   []string   `yaml:"localBindings,omitempty"`
	Kind            ImportKind `yaml:"kind"`
	Line            int        `yaml:"line"`
}

// Export is one named or default export of a file.
type Export struct {
	LocalName          string `yaml:"localName"`
	ExportedName       string `yaml:"exportedName"`
	IsDefault          bool   `yaml:"isDefault"`
	IsMemoizedComponent bool  `yaml:"isMemoizedComponent"`
	Line               int    `yaml:"line"`
}

// ComponentKind distinguishes the three syntactic shapes a component
// declaration can take.
type ComponentKind string

const (
	NamedFunction    ComponentKind = "named_function"
	ArrowVariable    ComponentKind = "arrow_variable"
	FunctionExpr     ComponentKind = "function_expression"
)

// Component is a capitalized-identifier function recognized as a rendered
// component.
type Component struct {
	Name      string        `yaml:"name"`
	Kind      ComponentKind `yaml:"kind"`
	BodyStart int           `yaml:"bodyStart"` // byte offset of the body span
	BodyEnd   int           `yaml:"bodyEnd"`
	StartLine int           `yaml:"startLine"`
	EndLine   int           `yaml:"endLine"`

	// BodyNode is the opaque *sitter.Node of the component's statement
	// block, nil for an expression-bodied arrow with no block to walk.
	BodyNode interface{} `yaml:"-"`
}

// Contains reports whether the given byte offset falls within the
// component's recorded body span.
func (c *Component) Contains(byteOffset int) bool {
	if c == nil {
		return false
	}
	return byteOffset >= c.BodyStart && byteOffset <= c.BodyEnd
}

// HookKind enumerates every hook call-site shape the semantic extractor
// recognizes.
type HookKind string

const (
	HookEffect             HookKind = "effect"
	HookLayoutEffect       HookKind = "layout_effect"
	HookMemo               HookKind = "memo"
	HookCallback           HookKind = "callback"
	HookImperativeHandle   HookKind = "imperative_handle"
	HookSyncExternalStore  HookKind = "sync_external_store"
	HookReducer            HookKind = "reducer"
	HookState              HookKind = "state"
	HookRef                HookKind = "ref"
	HookContext            HookKind = "context"
)

// DepEntry is one element of a hook's dependency array, preserving its
// original expression shape.
type DepEntry struct {
	Text     string `yaml:"text"`     // textual form, used in diagnostics
	RootName string `yaml:"rootName"` // root identifier, e.g. "a" in "a.b.c"
	Line     int    `yaml:"line"`

	// Node is the opaque *sitter.Node of the dependency expression itself,
	// consulted only by the optional strict-mode type-oracle bridge when a
	// stability classification otherwise falls through to UnknownHookReturn.
	Node interface{} `yaml:"-"`
}

// HookCallSite is one recognized hook invocation.
type HookCallSite struct {
	Kind              HookKind    `yaml:"kind"`
	CallbackBodyStart int         `yaml:"callbackBodyStart,omitempty"`
	CallbackBodyEnd   int         `yaml:"callbackBodyEnd,omitempty"`
	HasDepList        bool        `yaml:"hasDepList"` // false = "no dependency array"
	DepList           []DepEntry  `yaml:"depList,omitempty"`
	EnclosingComponent string     `yaml:"enclosingComponent"`
	Line              int         `yaml:"line"`
	Column            int         `yaml:"column"`

	// CallNode/CallbackBody are opaque *sitter.Node references (untyped
	// here so `model` stays free of a parser dependency, mirroring
	// ParsedFile.ASTRoot). rules/cfg type-assert them back. CallbackBody is
	// nil when the hook has no function-literal argument (e.g. useRef()).
	CallNode     interface{} `yaml:"-"`
	CallbackBody interface{} `yaml:"-"`
}

// DeclaringHook distinguishes the two hooks that can produce a state
// binding.
type DeclaringHook string

const (
	DeclaredByState   DeclaringHook = "state"
	DeclaredByReducer DeclaringHook = "reducer"
)

// StateBinding is a `[value, setter] = hook(...)` destructuring pattern.
type StateBinding struct {
	Name          string        `yaml:"name"`
	SetterName    string        `yaml:"setterName"`
	DeclaringHook DeclaringHook `yaml:"declaringHook"`
	Component     string        `yaml:"component"`
}

// StabilityClass is the analyzer's abstract classification of a name's
// referential stability across renders.
type StabilityClass string

const (
	Stable               StabilityClass = "Stable"
	UnstableObject        StabilityClass = "UnstableObject"
	UnstableArray         StabilityClass = "UnstableArray"
	UnstableFunction      StabilityClass = "UnstableFunction"
	UnstableCall          StabilityClass = "UnstableCall"
	PrimitiveDerived      StabilityClass = "PrimitiveDerived"
	MemoizedByWrapper     StabilityClass = "MemoizedByWrapper"
	SetterFromTrackedHook StabilityClass = "SetterFromTrackedHook"
	UnknownHookReturn     StabilityClass = "UnknownHookReturn"
)

// StabilityEntry records the stability class of one binding, scoped either
// to a component or to module scope (Component == "").
type StabilityEntry struct {
	Name       string         `yaml:"name"`
	Component  string         `yaml:"component,omitempty"`
	Class      StabilityClass `yaml:"class"`
	OriginHook string         `yaml:"originHook,omitempty"` // set when Class == MemoizedByWrapper
}

// ParsedFile is the immutable per-file record produced once by the
// inspector and shared read-only by every later phase.
type ParsedFile struct {
	Path                    string
	Digest                  uint64
	Size                    int64
	ASTRoot                 interface{} // opaque *sitter.Node, kept untyped here so `model` has no parser dependency
	SourceText              []byte
	Imports                 []Import
	Exports                 []Export
	Components              []Component
	Hooks                   []HookCallSite
	StateVars               []StateBinding
	VariableStability       []StabilityEntry
	CreatedContexts         []string
	MemoizedComponentNames  []string
	SuppressionLines        map[int]bool // line -> suppressed by rld-disable-next-line / same-line marker
	SuppressionRanges       [][2]int     // [start,end] line ranges toggled by rld-disable / rld-enable
	ParseError              error
}

// Category classifies a diagnostic by its practical consequence.
type Category string

const (
	CategoryCritical    Category = "critical"
	CategoryWarning     Category = "warning"
	CategoryPerformance Category = "performance"
)

// Severity is the diagnostic's importance.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Confidence reflects how certain the analyzer is in a finding.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DiagnosticKind distinguishes findings that are certain from ones that
// merely warrant human review.
type DiagnosticKind string

const (
	ConfirmedInfiniteLoop DiagnosticKind = "confirmed_infinite_loop"
	PotentialIssue        DiagnosticKind = "potential_issue"
)

// Location is a physical source position.
type Location struct {
	Path   string `yaml:"path"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column,omitempty"`
}

// Diagnostic is one finding: exactly one hook call site or one import edge.
type Diagnostic struct {
	Code                 string         `yaml:"code"`
	Category             Category       `yaml:"category"`
	Severity             Severity       `yaml:"severity"`
	Confidence           Confidence     `yaml:"confidence"`
	Kind                 DiagnosticKind `yaml:"kind"`
	Location             Location       `yaml:"location"`
	HookKind             HookKind       `yaml:"hookKind,omitempty"`
	ProblematicDependency string        `yaml:"problematicDependency,omitempty"`
	SetterFunction       string         `yaml:"setterFunction,omitempty"`
	Explanation          string         `yaml:"explanation"`
	Suggestion           string         `yaml:"suggestion,omitempty"`
	DebugRecord          *DebugRecord   `yaml:"debugRecord,omitempty"`

	// Cycle is populated for IMPORT-CYCLE / CROSS-FILE-CYCLE diagnostics:
	// the ordered list of file paths forming the cycle.
	Cycle []string `yaml:"cycle,omitempty"`
}

// DebugRecord carries the CFG node path taken to reach a guard/setter
// decision. No rule in this module fills it in, so Diagnostic.DebugRecord
// is always nil.
type DebugRecord struct {
	NodePath []int  `yaml:"nodePath"`
	Note     string `yaml:"note,omitempty"`
}

// Summary is the set of run-level counters every caller needs regardless of
// output surface.
type Summary struct {
	FilesAnalyzed   int            `yaml:"filesAnalyzed"`
	HooksAnalyzed   int            `yaml:"hooksAnalyzed"`
	FilesSkipped    int            `yaml:"filesSkipped"`
	CountsByCategory map[Category]int `yaml:"countsByCategory"`
}

// RunResult is the single object the orchestrator returns.
type RunResult struct {
	ImportCycles    []Diagnostic `yaml:"importCycles"`
	CrossFileCycles []Diagnostic `yaml:"crossFileCycles"`
	HookDiagnostics []Diagnostic `yaml:"hookDiagnostics"`
	Summary         Summary      `yaml:"summary"`
}

// AllDiagnostics returns every diagnostic in the result, in the order the
// three slices are stored (callers that need the §5 sort order should use
// assemble.Sort on this output).
func (r *RunResult) AllDiagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(r.ImportCycles)+len(r.CrossFileCycles)+len(r.HookDiagnostics))
	out = append(out, r.ImportCycles...)
	out = append(out, r.CrossFileCycles...)
	out = append(out, r.HookDiagnostics...)
	return out
}
