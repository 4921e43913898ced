package mercari

// conditionInfo maps a listed item condition to its price multiplier band and
// the sentence used in generated descriptions.
type conditionInfo struct {
	name  string
	min   float64
	max   float64
	label string
}

// conditionTable is ordered best condition first.
var conditionTable = []conditionInfo{
	{"新品、未使用", 0.70, 0.90, "新品・未使用のため、大変綺麗な状態です。"},
	{"未使用に近い", 0.60, 0.80, "ほぼ未使用で、非常に良好な状態です。"},
	{"目立った傷や汚れなし", 0.40, 0.70, "目立った傷や汚れはなく、良好な状態です。"},
	{"やや傷や汚れあり", 0.30, 0.50, "多少の使用感はありますが、問題なくご使用いただけます。"},
	{"傷や汚れあり", 0.15, 0.35, "使用感がありますが、まだご使用いただけます。"},
	{"全体的に状態が悪い", 0.05, 0.20, "全体的に使用感がございます。ご理解の上ご購入ください。"},
}

// conditionFor looks up a condition by its exact Mercari label.
func conditionFor(condition string) (conditionInfo, bool) {
	for _, info := range conditionTable {
		if info.name == condition {
			return info, true
		}
	}
	return conditionInfo{}, false
}

// categoryEntry pairs a Mercari top-level category with the keywords that
// suggest it. Entries are scanned in order and the first keyword hit wins,
// so the order is part of the behavior.
type categoryEntry struct {
	name     string
	keywords []string
}

var categoryTable = []categoryEntry{
	{"レディース", []string{"レディース", "ワンピース", "スカート", "ブラウス", "パンプス"}},
	{"メンズ", []string{"メンズ", "Tシャツ", "ジーンズ", "スニーカー", "ジャケット"}},
	{"ベビー・キッズ", []string{"ベビー", "キッズ", "子供", "幼児"}},
	{"インテリア・住まい", []string{"インテリア", "家具", "照明", "カーテン", "クッション"}},
	{"本・音楽・ゲーム", []string{"本", "漫画", "CD", "DVD", "ゲーム", "PlayStation", "Nintendo", "Switch"}},
	{"おもちゃ・ホビー", []string{"おもちゃ", "フィギュア", "プラモデル", "トレカ", "カード"}},
	{"コスメ・美容", []string{"コスメ", "化粧品", "美容", "香水", "スキンケア"}},
	{"家電・スマホ", []string{
		"家電", "スマホ", "iPhone", "iPad", "MacBook", "パソコン", "PC",
		"イヤホン", "AirPods", "カメラ", "テレビ",
	}},
	{"スポーツ・レジャー", []string{"スポーツ", "ゴルフ", "テニス", "ランニング", "キャンプ", "アウトドア"}},
	{"ハンドメイド", []string{"ハンドメイド", "手作り", "手編み"}},
	{"チケット", []string{"チケット", "入場券", "観戦券"}},
	{"自動車・オートバイ", []string{"自動車", "バイク", "オートバイ", "カー用品"}},
}

const categoryOther = "その他"

// brandEntry is a rough reference price for a well-known brand.
type brandEntry struct {
	name  string
	price int
}

// brandBasePrices is scanned in order; substring matches either way count.
var brandBasePrices = []brandEntry{
	{"apple", 30000},
	{"nike", 8000},
	{"adidas", 7000},
	{"uniqlo", 2000},
	{"gu", 1500},
	{"zara", 3000},
	{"louis vuitton", 50000},
	{"gucci", 40000},
	{"chanel", 60000},
	{"hermes", 80000},
	{"sony", 15000},
	{"nintendo", 20000},
	{"dyson", 25000},
	{"panasonic", 10000},
}

const defaultBasePrice = 5000
