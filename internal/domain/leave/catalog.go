package leave

// DefaultCatalog is the built-in code catalog used when no tenant-specific
// catalog is supplied. Shift codes carry IsLeave=false so mod-time approval
// keeps them on the schedule variation instead of the leave ledger.
var DefaultCatalog = []Code{
	// Shift codes
	{ID: "D"},
	{ID: "M"},
	{ID: "S"},
	{ID: "N"},

	// Leave codes
	{ID: "V", IsLeave: true, AltCode: "P"},
	{ID: "H", IsLeave: true},
	{ID: "ML", IsLeave: true},
	{ID: "PL", IsLeave: true},
	{ID: "J", IsLeave: true},
	{ID: "UP", IsLeave: true},
}
