package normalize

import "strings"

// Category buckets, checked in priority order — first match wins.
const (
	CategoryEnergy     = "energy"
	CategoryPrecious   = "precious_metals"
	CategoryIndustrial = "industrial_metals"
	CategoryAgri       = "agriculture"
	CategoryOther      = "other"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryEnergy, []string{
		"oil", "gas", "gasoline", "heating", "brent", "wti",
		"原油", "天然气", "汽油", "取暖油",
	}},
	{CategoryPrecious, []string{
		"gold", "silver", "platinum", "palladium",
		"黄金", "白银", "铂金", "钯金",
	}},
	{CategoryIndustrial, []string{
		"copper", "aluminum", "zinc", "nickel", "lead", "tin",
		"铜", "铝", "锌", "镍", "铅", "锡",
	}},
	{CategoryAgri, []string{
		"corn", "wheat", "soybean", "cotton", "sugar", "coffee", "cocoa", "cattle", "hog",
		"玉米", "小麦", "大豆", "棉花", "糖", "咖啡", "可可", "牛", "猪",
	}},
}

// Categorize infers the commodity category from name and symbol via a
// fixed keyword-substring classifier.
func Categorize(name, symbol string) string {
	nameLower := strings.ToLower(name)
	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(nameLower, kw) {
				return bucket.category
			}
		}
	}
	return CategoryOther
}

// standardNames maps source-specific commodity labels to canonical
// names. Unlisted names pass through unchanged.
var standardNames = map[string]string{
	"Oil (WTI)":               "WTI Crude Oil",
	"Oil (Brent)":             "Brent Crude Oil",
	"Natural Gas (Henry Hub)": "Natural Gas",
	"RBOB Gasoline":           "RBOB Gasoline",
	"Lean Hog":                "Lean Hogs",
}

// chineseNames maps canonical commodity names to their Chinese labels.
var chineseNames = map[string]string{
	"WTI Crude Oil":   "WTI原油",
	"Brent Crude Oil": "布伦特原油",
	"Natural Gas":     "天然气",
	"RBOB Gasoline":   "RBOB汽油",
	"Heating Oil":     "取暖油",
	"Gold":            "黄金",
	"Silver":          "白银",
	"Platinum":        "铂金",
	"Palladium":       "钯金",
	"Copper":          "铜",
	"Live Cattle":     "活牛",
	"Lean Hogs":       "瘦肉猪",
	"Feeder Cattle":   "饲料牛",
	"Corn":            "玉米",
	"Wheat":           "小麦",
	"Soybeans":        "大豆",
	"Cotton":          "棉花",
	"Sugar":           "糖",
	"Coffee":          "咖啡",
	"Cocoa":           "可可",
}

// StandardizeName collapses whitespace and maps known source-specific
// labels to their canonical form.
func StandardizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if canonical, ok := standardNames[name]; ok {
		return canonical
	}
	return name
}

// ChineseName returns the Chinese label for a canonical commodity name,
// or empty when none is known.
func ChineseName(name string) string {
	return chineseNames[name]
}
