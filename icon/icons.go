package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Warn
	Play
	Pause
	Buffering
	Stop
	Seek
	Volume
	Subtitles
)

var icons = map[Icon]*iconDef{
	Success:   {emoji: "✅", nerd: "", plain: "+", kaomoji: "(ᵔ◡ᵔ)", squares: "▣"},
	Fail:      {emoji: "❌", nerd: "", plain: "x", kaomoji: "(×_×)", squares: "▨"},
	Progress:  {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(・_・)", squares: "▤"},
	Warn:      {emoji: "⚠️", nerd: "", plain: "!", kaomoji: "(°ロ°)", squares: "▥"},
	Play:      {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(＾▽＾)", squares: "▶"},
	Pause:     {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(－_－)", squares: "◫"},
	Buffering: {emoji: "🌀", nerd: "", plain: "...", kaomoji: "(@_@)", squares: "◌"},
	Stop:      {emoji: "⏹️", nerd: "", plain: "[]", kaomoji: "(￣ー￣)", squares: "■"},
	Seek:      {emoji: "⏩", nerd: "", plain: ">>", kaomoji: "(ノ°▽°)ノ", squares: "▷"},
	Volume:    {emoji: "🔊", nerd: "", plain: "vol", kaomoji: "(ﾟoﾟ)", squares: "◈"},
	Subtitles: {emoji: "💬", nerd: "", plain: "sub", kaomoji: "(¬‿¬)", squares: "▦"},
}
