package categorizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a category name to the lowercase keywords that vote for it.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RuleSet is the ordered keyword taxonomy. Order only affects scan order,
// never the outcome: scoring takes the strict maximum across categories.
type RuleSet []Rule

// DefaultRules is the built-in taxonomy, loaded once at process start.
func DefaultRules() RuleSet {
	return RuleSet{
		{Category: "Alimentação", Keywords: []string{
			"restaurante", "lanchonete", "padaria", "supermercado", "mercado", "açougue",
			"pizzaria", "hamburgueria", "ifood", "uber eats", "delivery", "comida",
			"café", "bar", "pub", "sorveteria", "doceria", "confeitaria",
		}},
		{Category: "Transporte", Keywords: []string{
			"uber", "taxi", "99", "combustível", "gasolina", "etanol", "diesel",
			"estacionamento", "pedágio", "ônibus", "metrô", "trem", "passagem",
			"oficina", "mecânico", "pneu", "óleo", "revisão", "ipva", "seguro auto",
		}},
		{Category: "Moradia", Keywords: []string{
			"aluguel", "condomínio", "iptu", "luz", "energia", "água", "gás",
			"internet", "telefone", "limpeza", "manutenção", "reforma", "móveis",
			"decoração", "eletrodomésticos", "construção", "material construção",
		}},
		{Category: "Saúde", Keywords: []string{
			"farmácia", "remédio", "medicamento", "médico", "consulta", "exame",
			"dentista", "laboratório", "hospital", "clínica", "plano saúde",
			"seguro saúde", "fisioterapia", "psicólogo", "nutricionista",
		}},
		{Category: "Lazer", Keywords: []string{
			"cinema", "teatro", "show", "evento", "festa", "viagem", "hotel",
			"pousada", "turismo", "parque", "clube", "academia", "esporte",
			"jogo", "streaming", "netflix", "spotify", "entretenimento",
		}},
		{Category: "Educação", Keywords: []string{
			"escola", "faculdade", "universidade", "curso", "livro", "material escolar",
			"mensalidade", "matrícula", "professor", "aula", "treinamento",
			"certificação", "workshop", "seminário",
		}},
		{Category: "Compras", Keywords: []string{
			"loja", "shopping", "roupa", "calçado", "acessório", "perfume",
			"cosmético", "eletrônico", "celular", "computador", "presente",
			"gift", "amazon", "mercado livre", "magazine", "casas bahia",
		}},
		{Category: "Serviços", Keywords: []string{
			"banco", "cartão", "financiamento", "empréstimo", "seguro",
			"advogado", "contador", "consultoria", "manutenção", "reparo",
			"limpeza", "jardinagem", "pet shop", "veterinário",
		}},
	}
}

// LoadRules reads a rule set from a YAML file. An empty path returns the
// built-in taxonomy.
func LoadRules(path string) (RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	// Keywords match against lowercased text, so normalize them once here.
	for i := range rules {
		for j, kw := range rules[i].Keywords {
			rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	return rules, nil
}

// Validate rejects empty categories, duplicate categories and rules
// without keywords.
func (rs RuleSet) Validate() error {
	seen := make(map[string]bool, len(rs))
	for _, r := range rs {
		name := strings.TrimSpace(r.Category)
		if name == "" {
			return fmt.Errorf("rule with empty category")
		}
		if seen[name] {
			return fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = true
		if len(r.Keywords) == 0 {
			return fmt.Errorf("category %q has no keywords", name)
		}
	}
	return nil
}

// Categories returns the category names in rule order.
func (rs RuleSet) Categories() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Category
	}
	return out
}
