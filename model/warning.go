package model

// WarningKind classifies a non-fatal problem met during conversion.
type WarningKind string

const (
	WarnRelationshipMissing WarningKind = "relationship_missing"
	WarnImageDecode         WarningKind = "image_decode_failure"
	WarnHeaderFooter        WarningKind = "header_footer"
	WarnPackagePart         WarningKind = "package_part"
)

// Warning records a problem that degraded the output without failing it.
type Warning struct {
	Kind    WarningKind
	Message string
}

// String returns "kind: message".
func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}
