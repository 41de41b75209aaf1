package entity

// WasteCategory категория мусора по немецкой системе сортировки
type WasteCategory string

const (
	CategoryRestmuell      WasteCategory = "Restmüll"        // чёрный бак
	CategoryPapiermuell    WasteCategory = "Papiermüll"      // синий бак
	CategoryBiomuell       WasteCategory = "Biomüll"         // коричневый бак
	CategoryVerpackung     WasteCategory = "Verpackungsmüll" // жёлтый бак или мешок
	CategoryGlasmuell      WasteCategory = "Glasmüll"        // контейнеры для стекла
	CategorySondermuell    WasteCategory = "Sondermüll"      // пункт приёма опасных отходов
	CategoryElektroschrott WasteCategory = "Elektroschrott"  // Wertstoffhof или магазин
)

// DefaultCategory подставляется, если модель ответила не названием категории
const DefaultCategory = CategoryRestmuell

// CategoryInfo статические данные для отображения категории
type CategoryInfo struct {
	Category    WasteCategory `json:"category"`
	Icon        string        `json:"icon"`
	Color       string        `json:"color"`
	Bin         string        `json:"bin"`
	Description string        `json:"description"`
}

var categories = []CategoryInfo{
	{
		Category:    CategoryRestmuell,
		Icon:        "🗑️",
		Color:       "gray",
		Bin:         "Schwarze Tonne",
		Description: "Dieser Abfall gehört in die schwarze Restmülltonne.",
	},
	{
		Category:    CategoryPapiermuell,
		Icon:        "♻️",
		Color:       "blue",
		Bin:         "Blaue Tonne",
		Description: "Dieser Abfall gehört in die blaue Papiertonne.",
	},
	{
		Category:    CategoryBiomuell,
		Icon:        "🍃",
		Color:       "green",
		Bin:         "Braune Tonne",
		Description: "Dieser Abfall gehört in die braune Biotonne.",
	},
	{
		Category:    CategoryVerpackung,
		Icon:        "♻️",
		Color:       "yellow",
		Bin:         "Gelbe Tonne / Gelber Sack",
		Description: "Dieser Abfall gehört in den gelben Sack oder die gelbe Tonne.",
	},
	{
		Category:    CategoryGlasmuell,
		Icon:        "🍾",
		Color:       "green",
		Bin:         "Glascontainer",
		Description: "Dieser Abfall gehört in den Glascontainer (nach Farben sortiert).",
	},
	{
		Category:    CategorySondermuell,
		Icon:        "⚠️",
		Color:       "red",
		Bin:         "Sammelstelle",
		Description: "Dieser Abfall ist Sondermüll und muss bei einer speziellen Sammelstelle abgegeben werden.",
	},
	{
		Category:    CategoryElektroschrott,
		Icon:        "🔌",
		Color:       "purple",
		Bin:         "Wertstoffhof",
		Description: "Dieser Abfall ist Elektroschrott und muss beim Wertstoffhof oder bei Händlern abgegeben werden.",
	},
}

// Categories возвращает все категории в фиксированном порядке
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory ищет категорию по точному имени
func ParseCategory(name string) (WasteCategory, bool) {
	for _, c := range categories {
		if string(c.Category) == name {
			return c.Category, true
		}
	}
	return "", false
}

// Info возвращает данные для отображения категории
func (c WasteCategory) Info() (CategoryInfo, bool) {
	for _, info := range categories {
		if info.Category == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}
