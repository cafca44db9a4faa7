package store

// Fields is the structured view of a decrypted entry blob.
type Fields struct {
	// Password is line 0 of the blob, verbatim. Unlike the metadata
	// lines it is never trimmed: a real secret may rely on exact
	// characters.
	Password string

	// Username is the value of the first "username:"/"user:"/"login:"
	// line, trimmed.
	Username string

	// URL is the first line starting with http://, https:// or www.
	URL string

	// TOTPSecret is the raw value of the first "totp:" line. Normalize
	// with NormalizeTOTPSecret before feeding it to a code generator.
	TOTPSecret string

	// RecoveryCodes preserves parse order; duplicates are allowed.
	RecoveryCodes []string

	// Notes is everything left over, joined and trimmed of leading and
	// trailing blank lines.
	Notes string
}

// Entry represents one record or one folder node of the store.
// Folder entries are synthetic, derived from path prefixes, and are never
// cached; record entries carry Fields after a successful detail fetch.
type Entry struct {
	Path     string
	IsFolder bool
	Fields
}
