package domain

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = ".smush.yaml"

	// TempPattern is the pattern used for temporary candidate outputs.
	TempPattern = "smush-*-opt.smush"

	// SupportedConfigVersion is the configuration schema version understood by this build.
	SupportedConfigVersion = "1"

	// DefaultMinPercent is the default savings threshold in percent.
	DefaultMinPercent = 3

	// DetectPrefixLen is the number of characters of the identify output used
	// for the top-level format lookup.
	DetectPrefixLen = 6

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultExcludes returns the names that are always skipped while walking.
func DefaultExcludes() []string {
	return []string{".bzr", ".git", ".hg", ".svn"}
}
