package theme

// Tree and file glyphs
const (
	IconDirClosed = "▸"
	IconDirOpen   = "▾"
	IconFile      = ""
)

// Git status markers shown next to sidebar entries.
const (
	MarkModified  = "[M]"
	MarkAdded     = "[+]"
	MarkDeleted   = "[D]"
	MarkUntracked = "[?]"
	MarkIgnored   = "[i]"
)

// Branch indicator for the status bar.
const (
	BranchIcon = ""
	DirtyMark  = "*"
)

// Panel running/idle glyphs.
const (
	StatusRunning = "●"
	StatusIdle    = "○"
)

// SpinnerFrames animate long operations in the status bar.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// KindIcon returns the glyph shown before a completion item.
func KindIcon(kind string) string {
	switch kind {
	case "command":
		return ""
	case "subcommand":
		return ""
	case "option":
		return ""
	case "argument":
		return "󰀫"
	case "file":
		return IconFile
	case "directory":
		return ""
	case "history":
		return "󰋚"
	default:
		return " "
	}
}

// fileIcons maps extensions to nerd font glyphs.
var fileIcons = map[string]string{
	".go":   "󰟓",
	".mod":  "󰏗",
	".sum":  "󰏗",
	".rs":   "",
	".py":   "",
	".js":   "",
	".ts":   "",
	".tsx":  "",
	".jsx":  "",
	".c":    "",
	".h":    "",
	".cpp":  "",
	".rb":   "",
	".java": "",
	".sh":   "",
	".zsh":  "",
	".bash": "",
	".md":   "",
	".json": "",
	".yaml": "",
	".yml":  "",
	".toml": "",
	".lock": "",
	".html": "",
	".css":  "",
	".sql":  "",
	".git":  "",
	".txt":  "",
	".log":  "",
	".png":  "",
	".jpg":  "",
	".svg":  "󰜡",
	".zip":  "",
	".pdf":  "",
}

func iconForExt(ext string) string {
	if icon, ok := fileIcons[ext]; ok {
		return icon
	}
	return IconFile
}
