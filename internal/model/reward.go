// internal/model/reward.go
package model

// SpecialRewardType は特別報酬イベントの種別です
type SpecialRewardType string

const (
	SpecialAchievement SpecialRewardType = "achievement" // ストレッチ達成
	SpecialMilestone   SpecialRewardType = "milestone"   // テンプレート経過日マイルストーン
	SpecialComeback    SpecialRewardType = "comeback"    // 休止からの復帰
	SpecialSynergy     SpecialRewardType = "synergy"     // 同テンプレート習慣の同日連続達成
)

// SpecialReward はユーザーに通知される特別報酬イベントです
type SpecialReward struct {
	Type    SpecialRewardType `json:"type"`
	Message string            `json:"message"`
	XP      int               `json:"xp"`
	Coins   int               `json:"coins"`
	Gems    int               `json:"gems,omitempty"`
}

// BonusComponent はボーナス内訳の1項目です。
// Source はボーナスの発生源 ("streak" / "difficulty" / "comeback" / "timing" /
// "strength" / "template" / "milestone" / "synergy") を示します。
type BonusComponent struct {
	Source string `json:"source"`
	XP     int    `json:"xp"`
	Coins  int    `json:"coins"`
}

// RewardCalculation は1回の完了に対する報酬の明細です。
// 永続化はされず、合計値のみが CompletionRecord と UserStats に反映されます。
type RewardCalculation struct {
	BaseXP         int              `json:"base_xp"`
	BaseCoins      int              `json:"base_coins"`
	BonusXP        int              `json:"bonus_xp"`
	BonusCoins     int              `json:"bonus_coins"`
	BonusGems      int              `json:"bonus_gems"`
	Breakdown      []BonusComponent `json:"breakdown"`
	SpecialRewards []SpecialReward  `json:"special_rewards"`
	TotalXP        int              `json:"total_xp"`
	TotalCoins     int              `json:"total_coins"`
}

// MilestoneReward はテンプレート経過日マイルストーンの固定報酬です
type MilestoneReward struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
	Gems  int `json:"gems"`
}

// Notification はユーザーに届ける通知の内容です
type Notification struct {
	Type    SpecialRewardType `json:"type"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
}
