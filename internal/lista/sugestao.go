package lista

import "strings"

// SuggestCategoria returns the categoria name that best fits an item name.
// Matching is case-insensitive: exact match first, then substring match.
// Falls back to "Outros" when nothing matches.
func SuggestCategoria(nome string) string {
	nome = strings.ToLower(strings.TrimSpace(nome))
	if nome == "" {
		return "Outros"
	}

	if cat, ok := exactMatch[nome]; ok {
		return cat
	}

	// Longer, more specific keywords come first.
	for _, entry := range substringMatches {
		if strings.Contains(nome, entry.keyword) {
			return entry.categoria
		}
	}

	return "Outros"
}

var exactMatch = map[string]string{
	// Hortifruti
	"banana":    "Hortifruti",
	"bananas":   "Hortifruti",
	"maçã":      "Hortifruti",
	"maçãs":     "Hortifruti",
	"laranja":   "Hortifruti",
	"laranjas":  "Hortifruti",
	"limão":     "Hortifruti",
	"limões":    "Hortifruti",
	"abacate":   "Hortifruti",
	"tomate":    "Hortifruti",
	"tomates":   "Hortifruti",
	"batata":    "Hortifruti",
	"batatas":   "Hortifruti",
	"cebola":    "Hortifruti",
	"cebolas":   "Hortifruti",
	"alho":      "Hortifruti",
	"alface":    "Hortifruti",
	"couve":     "Hortifruti",
	"brócolis":  "Hortifruti",
	"cenoura":   "Hortifruti",
	"cenouras":  "Hortifruti",
	"pepino":    "Hortifruti",
	"abobrinha": "Hortifruti",
	"mamão":     "Hortifruti",
	"melancia":  "Hortifruti",
	"abacaxi":   "Hortifruti",
	"manga":     "Hortifruti",
	"uva":       "Hortifruti",
	"uvas":      "Hortifruti",
	"morango":   "Hortifruti",
	"morangos":  "Hortifruti",
	"coentro":   "Hortifruti",
	"salsinha":  "Hortifruti",
	"gengibre":  "Hortifruti",

	// Laticínios
	"leite":            "Laticínios",
	"ovos":             "Laticínios",
	"manteiga":         "Laticínios",
	"queijo":           "Laticínios",
	"iogurte":          "Laticínios",
	"requeijão":        "Laticínios",
	"creme de leite":   "Laticínios",
	"leite condensado": "Laticínios",
	"nata":             "Laticínios",

	// Açougue
	"frango":         "Açougue",
	"carne":          "Açougue",
	"carne moída":    "Açougue",
	"bife":           "Açougue",
	"linguiça":       "Açougue",
	"bacon":          "Açougue",
	"presunto":       "Açougue",
	"salsicha":       "Açougue",
	"peixe":          "Açougue",
	"salmão":         "Açougue",
	"camarão":        "Açougue",
	"atum":           "Açougue",
	"peito de peru":  "Açougue",
	"coxa de frango": "Açougue",
	"picanha":        "Açougue",
	"costela":        "Açougue",

	// Padaria
	"pão":           "Padaria",
	"pães":          "Padaria",
	"pão de forma":  "Padaria",
	"pão francês":   "Padaria",
	"pão integral":  "Padaria",
	"bolo":          "Padaria",
	"torrada":       "Padaria",
	"bisnaguinha":   "Padaria",
	"pão de queijo": "Padaria",

	// Mercearia
	"arroz":            "Mercearia",
	"feijão":           "Mercearia",
	"macarrão":         "Mercearia",
	"farinha":          "Mercearia",
	"farinha de trigo": "Mercearia",
	"açúcar":           "Mercearia",
	"sal":              "Mercearia",
	"pimenta":          "Mercearia",
	"óleo":             "Mercearia",
	"azeite":           "Mercearia",
	"vinagre":          "Mercearia",
	"molho de tomate":  "Mercearia",
	"ketchup":          "Mercearia",
	"mostarda":         "Mercearia",
	"maionese":         "Mercearia",
	"mel":              "Mercearia",
	"aveia":            "Mercearia",
	"café":             "Mercearia",
	"milho":            "Mercearia",
	"ervilha":          "Mercearia",
	"lentilha":         "Mercearia",
	"grão de bico":     "Mercearia",
	"extrato de tomate": "Mercearia",

	// Congelados
	"sorvete":        "Congelados",
	"pizza congelada": "Congelados",
	"lasanha":        "Congelados",
	"nuggets":        "Congelados",
	"açaí":           "Congelados",

	// Bebidas
	"água":              "Bebidas",
	"suco":              "Bebidas",
	"refrigerante":      "Bebidas",
	"cerveja":           "Bebidas",
	"vinho":             "Bebidas",
	"chá":               "Bebidas",
	"água com gás":      "Bebidas",
	"água de coco":      "Bebidas",
	"guaraná":           "Bebidas",

	// Lanches
	"biscoito":   "Lanches",
	"bolacha":    "Lanches",
	"salgadinho": "Lanches",
	"pipoca":     "Lanches",
	"chocolate":  "Lanches",
	"bala":       "Lanches",
	"amendoim":   "Lanches",
	"castanha":   "Lanches",

	// Limpeza
	"detergente":       "Limpeza",
	"sabão em pó":      "Limpeza",
	"amaciante":        "Limpeza",
	"água sanitária":   "Limpeza",
	"desinfetante":     "Limpeza",
	"esponja":          "Limpeza",
	"papel toalha":     "Limpeza",
	"papel higiênico":  "Limpeza",
	"saco de lixo":     "Limpeza",
	"papel alumínio":   "Limpeza",
	"multiuso":         "Limpeza",

	// Higiene
	"shampoo":         "Higiene",
	"condicionador":   "Higiene",
	"sabonete":        "Higiene",
	"pasta de dente":  "Higiene",
	"creme dental":    "Higiene",
	"escova de dente": "Higiene",
	"desodorante":     "Higiene",
	"fio dental":      "Higiene",
	"protetor solar":  "Higiene",
	"absorvente":      "Higiene",
	"cotonete":        "Higiene",
}

type substringEntry struct {
	keyword   string
	categoria string
}

// Ordered with longer keywords first so the most specific match wins.
var substringMatches = []substringEntry{
	// Açougue
	{"peito de frango", "Açougue"},
	{"coxa de frango", "Açougue"},
	{"carne moída", "Açougue"},
	{"file de", "Açougue"},
	{"filé de", "Açougue"},
	{"frango", "Açougue"},
	{"carne", "Açougue"},
	{"linguiça", "Açougue"},
	{"peixe", "Açougue"},

	// Laticínios
	{"creme de leite", "Laticínios"},
	{"leite condensado", "Laticínios"},
	{"iogurte", "Laticínios"},
	{"queijo", "Laticínios"},
	{"leite", "Laticínios"},
	{"manteiga", "Laticínios"},
	{"ovo", "Laticínios"},

	// Hortifruti
	{"cebolinha", "Hortifruti"},
	{"pimentão", "Hortifruti"},
	{"batata doce", "Hortifruti"},
	{"repolho", "Hortifruti"},
	{"couve-flor", "Hortifruti"},
	{"abóbora", "Hortifruti"},
	{"fruta", "Hortifruti"},
	{"verdura", "Hortifruti"},
	{"legume", "Hortifruti"},
	{"tomate", "Hortifruti"},
	{"batata", "Hortifruti"},
	{"cebola", "Hortifruti"},
	{"alface", "Hortifruti"},

	// Padaria
	{"pão de", "Padaria"},
	{"pão", "Padaria"},
	{"bolo", "Padaria"},
	{"torrada", "Padaria"},

	// Mercearia
	{"molho de", "Mercearia"},
	{"farinha", "Mercearia"},
	{"tempero", "Mercearia"},
	{"enlatado", "Mercearia"},
	{"conserva", "Mercearia"},
	{"arroz", "Mercearia"},
	{"feijão", "Mercearia"},
	{"macarrão", "Mercearia"},
	{"açúcar", "Mercearia"},
	{"café", "Mercearia"},
	{"molho", "Mercearia"},
	{"azeite", "Mercearia"},
	{"óleo", "Mercearia"},

	// Congelados
	{"congelad", "Congelados"},
	{"sorvete", "Congelados"},

	// Bebidas
	{"água com gás", "Bebidas"},
	{"suco de", "Bebidas"},
	{"refrigerante", "Bebidas"},
	{"cerveja", "Bebidas"},
	{"vinho", "Bebidas"},
	{"suco", "Bebidas"},
	{"água", "Bebidas"},
	{"chá", "Bebidas"},

	// Lanches
	{"salgadinho", "Lanches"},
	{"biscoito", "Lanches"},
	{"bolacha", "Lanches"},
	{"chocolate", "Lanches"},
	{"pipoca", "Lanches"},

	// Limpeza
	{"papel higiênico", "Limpeza"},
	{"papel toalha", "Limpeza"},
	{"saco de lixo", "Limpeza"},
	{"sabão", "Limpeza"},
	{"detergente", "Limpeza"},
	{"amaciante", "Limpeza"},
	{"limpador", "Limpeza"},
	{"limpeza", "Limpeza"},
	{"desinfetante", "Limpeza"},

	// Higiene
	{"pasta de dente", "Higiene"},
	{"escova de dente", "Higiene"},
	{"shampoo", "Higiene"},
	{"sabonete", "Higiene"},
	{"desodorante", "Higiene"},
	{"condicionador", "Higiene"},
}
