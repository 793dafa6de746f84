package domain

// SubjectCategory est le tag de couleur d'une matière.
type SubjectCategory string

const (
	CategoryDevOps          SubjectCategory = "devops"
	CategoryLanguageRuntime SubjectCategory = "language-runtime"
	CategoryFramework       SubjectCategory = "framework"
	CategoryFundamentals    SubjectCategory = "fundamentals"
	CategoryMiscellaneous   SubjectCategory = "miscellaneous"
	CategoryReview          SubjectCategory = "review"
)

// Categories renvoie l'ensemble fixe, dans l'ordre de la légende.
func Categories() []SubjectCategory {
	return []SubjectCategory{
		CategoryDevOps,
		CategoryLanguageRuntime,
		CategoryFramework,
		CategoryFundamentals,
		CategoryMiscellaneous,
		CategoryReview,
	}
}

func (c SubjectCategory) Valid() bool {
	_, ok := categoryStyles[c]
	return ok
}

// Style décrit le rendu d'une catégorie (dégradé de la carte + pastille de légende).
type Style struct {
	Swatch    string `json:"swatch"`
	From      string `json:"from"`
	To        string `json:"to"`
	TextColor string `json:"textColor"`
}

var categoryStyles = map[SubjectCategory]Style{
	CategoryDevOps:          {Swatch: "#ef4444", From: "#ef4444", To: "#f87171", TextColor: "#ffffff"},
	CategoryLanguageRuntime: {Swatch: "#3b82f6", From: "#3b82f6", To: "#60a5fa", TextColor: "#ffffff"},
	CategoryFramework:       {Swatch: "#16a34a", From: "#16a34a", To: "#22c55e", TextColor: "#ffffff"},
	CategoryFundamentals:    {Swatch: "#f97316", From: "#f97316", To: "#fb923c", TextColor: "#ffffff"},
	CategoryMiscellaneous:   {Swatch: "#9333ea", From: "#9333ea", To: "#a855f7", TextColor: "#ffffff"},
	CategoryReview:          {Swatch: "#4b5563", From: "#4b5563", To: "#6b7280", TextColor: "#ffffff"},
}

// StyleOf renvoie le style d'une catégorie; zéro si inconnue.
func StyleOf(c SubjectCategory) Style {
	return categoryStyles[c]
}
