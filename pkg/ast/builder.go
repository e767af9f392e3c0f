package ast

import "github.com/oisee/spinc/pkg/srcloc"

// Builder threads the "report-as" source-location hint explicitly (spec.md
// §9 Design Notes recommends this over a TLS global). A transform that
// synthesizes nodes on behalf of an original construct calls SaveReportAs/
// SetReportAs/RestoreReportAs around the rewrite so the synthesized nodes
// carry the original construct's location rather than wherever the
// transform happens to be looking.
type Builder struct {
	Stream     *srcloc.LexStream
	reportAs   srcloc.Loc
	hasReportAs bool
}

// NewBuilder creates a Builder whose default location comes from stream.
func NewBuilder(stream *srcloc.LexStream) *Builder {
	return &Builder{Stream: stream}
}

// Loc returns the location a newly synthesized node should carry: the
// report-as hint if one is set, else the builder's current stream position.
func (b *Builder) Loc() srcloc.Loc {
	if b.hasReportAs {
		return b.reportAs
	}
	if b.Stream == nil {
		return srcloc.NoLoc
	}
	return srcloc.Loc{Stream: b.Stream, Index: b.Stream.Len() - 1}
}

// SetReportAs overrides the location used for subsequently synthesized
// nodes. Returns the previous (loc, wasSet) pair so the caller can restore
// it with RestoreReportAs, including along error-return paths.
func (b *Builder) SetReportAs(loc srcloc.Loc) (prev srcloc.Loc, prevSet bool) {
	prev, prevSet = b.reportAs, b.hasReportAs
	b.reportAs, b.hasReportAs = loc, true
	return
}

// RestoreReportAs restores a (loc, wasSet) pair captured by SetReportAs.
func (b *Builder) RestoreReportAs(loc srcloc.Loc, wasSet bool) {
	b.reportAs, b.hasReportAs = loc, wasSet
}

// Int builds a KindInteger leaf at the builder's current location.
func (b *Builder) Int(v int64) *Node { return NewInt(v, b.Loc()) }

// Ident builds a KindIdentifier leaf at the builder's current location.
func (b *Builder) Ident(name string) *Node { return NewIdentifier(name, b.Loc()) }

// Node builds a plain interior node at the builder's current location.
func (b *Builder) Node(kind Kind, left, right *Node) *Node { return New(kind, left, right, b.Loc()) }

// Operator builds a KindOperator node at the builder's current location.
func (b *Builder) Operator(op OperatorCode, left, right *Node) *Node {
	return NewOperator(op, left, right, b.Loc())
}
