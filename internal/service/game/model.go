package game

// 房间阶段
type Phase string

const (
	PHASE_WAITING Phase = "waiting"
	PHASE_PLAYING Phase = "playing"
)

// 开局所需的最少玩家数
const MIN_PLAYERS = 3

// 白板模式下，卧底在一局中拿到白板的概率
const BLANK_CARD_PROBABILITY = 0.25

// 揭晓时用来代替白板卧底词语的提示
const BLANK_CARD_INDICATOR = "(blank card this round)"

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`

	RespCh chan ResponseWrapper `json:"-"`
}

// 一局中分配给某个玩家的词语
// IsBlankCard 为 true 时一定是卧底，且 Word 为空
type Assignment struct {
	Word        string `json:"word"`
	IsImpostor  bool   `json:"isImpostor"`
	IsBlankCard bool   `json:"isBlankCard"`
}

type WordPair struct {
	Common   string
	Impostor string
}

type Settings struct {
	BlankCardMode bool `json:"blankCardMode"`
}

// 开局时客户端可选地携带的设置，缺省字段沿用房间当前的值
type SettingsPatch struct {
	BlankCardMode *bool `json:"blankCardMode,omitempty"`
}

func (s Settings) Merge(patch *SettingsPatch) Settings {
	if patch == nil {
		return s
	}

	if patch.BlankCardMode != nil {
		s.BlankCardMode = *patch.BlankCardMode
	}

	return s
}

// 当前这一局的秘密信息，仅在揭晓时公开
type roundInfo struct {
	pair         WordPair
	impostorID   string
	impostorName string
	blankCard    bool
}

// 房间的公开快照，不包含任何词语
type RoomSnapshot struct {
	Code     string
	Phase    Phase
	Players  []Player
	Settings Settings
}
