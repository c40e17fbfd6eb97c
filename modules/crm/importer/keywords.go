package importer

// Field names the semantic columns the mapper can assign.
type Field string

const (
	FieldClientName Field = "clientName"
	FieldDueDate    Field = "dueDate"
	FieldBirthday   Field = "birthday"
	FieldPhone      Field = "phone"
	FieldEmail      Field = "email"
	FieldInsurer    Field = "insurer"
	FieldProduct    Field = "product"
	FieldPremium    Field = "premium"
	FieldIOF        Field = "iof"
	FieldNetPremium Field = "netPremium"
	FieldCommission Field = "commission"
	FieldCpfCnpj    Field = "cpfCnpj"
	FieldPlate      Field = "plate"
)

// headerWeight is one scoring rule for header-likeness: if a normalized cell
// matches the predicate, Weight is added to the row score.
type headerWeight struct {
	Match  func(normalized string) bool
	Weight int
}

// headerWeights is the scoring table for the header locator. Keeping it as
// data keeps the scorer testable rule by rule.
var headerWeights = []headerWeight{
	{func(s string) bool { return containsAny(s, "venc", "fimvigencia", "finaldevigencia") }, 6},
	{func(s string) bool { return containsAny(s, "telefone", "celular", "fone", "whatsapp") }, 4},
	{func(s string) bool { return containsAny(s, "seguradora", "companhia") }, 4},
	{func(s string) bool { return containsAny(s, "email") }, 4},
	{func(s string) bool { return containsAny(s, "cpf", "cnpj") }, 4},
	{func(s string) bool { return containsAny(s, "placa") }, 3},
	{func(s string) bool { return containsAny(s, "aniversario", "nascimento", "datanasc") }, 3},
	{func(s string) bool { return containsAny(s, "produto", "ramo") }, 3},
	{func(s string) bool { return containsAny(s, "premioliquido", "valorliquido", "liquido") }, 3},
	{func(s string) bool { return containsAny(s, "iof") }, 3},
	{func(s string) bool { return containsAny(s, "comissao") }, 3},
	{func(s string) bool { return containsAny(s, "premio", "valor") }, 3},
}

const (
	// minCandidateCells is the floor below which a row is never scored.
	// Narrow sheets stay importable: a short header row wins only when its
	// keyword score alone reaches minHeaderScore.
	minCandidateCells = 2
	// minHeaderScore is the acceptance threshold for the best candidate.
	minHeaderScore = 8

	wideRowBonusThreshold = 10
	wideRowBonus          = 5
	extraWideRowThreshold = 14
	extraWideRowBonus     = 3
	contentSampleSize     = 10
)

// columnRule assigns a field to the first header matching its predicate.
// Rules are evaluated in order; within a field the earlier rule has priority
// (a "celular" column beats a "comercial" one).
type columnRule struct {
	Field Field
	Match func(normalized string) bool
}

var columnRules = []columnRule{
	{FieldPhone, func(s string) bool { return containsAny(s, "celular", "whatsapp") }},
	{FieldPhone, func(s string) bool { return containsAny(s, "comercial") && containsAny(s, "telefone", "fone") }},
	{FieldPhone, func(s string) bool { return containsAny(s, "telefone", "fone") }},
	{FieldDueDate, func(s string) bool { return containsAny(s, "venc", "fimvigencia", "finaldevigencia") }},
	{FieldBirthday, func(s string) bool { return containsAny(s, "aniversario", "nascimento", "datanasc") }},
	{FieldEmail, func(s string) bool { return containsAny(s, "email") }},
	{FieldInsurer, func(s string) bool { return containsAny(s, "seguradora", "companhia") }},
	{FieldProduct, func(s string) bool { return containsAny(s, "produto", "ramo") }},
	{FieldIOF, func(s string) bool { return containsAny(s, "iof") }},
	{FieldNetPremium, func(s string) bool { return containsAny(s, "premioliquido", "valorliquido", "liquido") }},
	{FieldCommission, func(s string) bool { return containsAny(s, "comissao") }},
	{FieldPremium, func(s string) bool { return containsAny(s, "premio") && !containsAny(s, "liquido") }},
	{FieldPremium, func(s string) bool { return containsAny(s, "valortotal", "valordopremio") }},
	{FieldCpfCnpj, func(s string) bool { return containsAny(s, "cpf", "cnpj", "documento") }},
	{FieldPlate, func(s string) bool { return containsAny(s, "placa") }},
	{FieldClientName, func(s string) bool { return containsAny(s, "segurado") && !containsAny(s, "seguradora") }},
	{FieldClientName, func(s string) bool { return containsAny(s, "cliente") }},
	{FieldClientName, func(s string) bool { return containsAny(s, "nome") && !containsAny(s, "seguradora", "produto") }},
}

// monthTokens marks rows that are month strips from dashboard sheets, never
// headers.
var monthTokens = map[string]struct{}{
	"jan": {}, "fev": {}, "mar": {}, "abr": {}, "mai": {}, "jun": {},
	"jul": {}, "ago": {}, "set": {}, "out": {}, "nov": {}, "dez": {},
	"janeiro": {}, "fevereiro": {}, "marco": {}, "abril": {}, "maio": {},
	"junho": {}, "julho": {}, "agosto": {}, "setembro": {}, "outubro": {},
	"novembro": {}, "dezembro": {},
}

// summaryTokens mark dashboard/summary rows that must never win the header
// election no matter how many keyword hits they collect.
var summaryTokens = []string{"dashboard", "resumo", "totalgeral", "indicadores"}
