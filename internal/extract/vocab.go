package extract

// Static vocabularies. All read-only after init; extraction never
// mutates them.

// companySizes maps porte terms to the fixed size enum, in priority
// order (more specific terms first).
var companySizes = []keywordEntry{
	vocabEntry("microempresa", "ME"),
	vocabEntry("micro empresa", "ME"),
	vocabEntry("me", "ME"),
	vocabEntry("empresa de pequeno porte", "EPP"),
	vocabEntry("epp", "EPP"),
	vocabEntry("pequeno porte", "Pequena"),
	vocabEntry("pequena", "Pequena"),
	vocabEntry("médio porte", "Média"),
	vocabEntry("média", "Média"),
	vocabEntry("grande porte", "Grande"),
	vocabEntry("grande", "Grande"),
}

// brazilianStates is the fixed list of the 27 state names, lowercased.
// Longer names first so "mato grosso do sul" wins over "mato grosso".
var brazilianStates = []string{
	"mato grosso do sul",
	"rio grande do norte",
	"rio grande do sul",
	"distrito federal",
	"espírito santo",
	"santa catarina",
	"minas gerais",
	"rio de janeiro",
	"são paulo",
	"mato grosso",
	"acre",
	"alagoas",
	"amapá",
	"amazonas",
	"bahia",
	"ceará",
	"goiás",
	"maranhão",
	"pará",
	"paraíba",
	"paraná",
	"pernambuco",
	"piauí",
	"rondônia",
	"roraima",
	"sergipe",
	"tocantins",
}

// sectors is the generic industry vocabulary.
var sectors = []keywordEntry{
	vocabEntry("indústria", "indústria"),
	vocabEntry("comércio", "comércio"),
	vocabEntry("serviços", "serviços"),
	vocabEntry("tecnologia", "tecnologia"),
	vocabEntry("saúde", "saúde"),
	vocabEntry("educação", "educação"),
	vocabEntry("financeiro", "financeiro"),
	vocabEntry("varejo", "varejo"),
	vocabEntry("alimentação", "alimentação"),
	vocabEntry("construção", "construção"),
	vocabEntry("logística", "logística"),
	vocabEntry("agricultura", "agricultura"),
	vocabEntry("energia", "energia"),
	vocabEntry("telecomunicações", "telecomunicações"),
	vocabEntry("consultoria", "consultoria"),
}

// contactTitles lists decision-maker roles, checked before the free
// pattern fallback.
var contactTitles = []keywordEntry{
	vocabEntry("vice-presidente", "vice-presidente"),
	vocabEntry("presidente", "presidente"),
	vocabEntry("diretor", "diretor"),
	vocabEntry("gerente", "gerente"),
	vocabEntry("coordenador", "coordenador"),
	vocabEntry("supervisor", "supervisor"),
	vocabEntry("ceo", "ceo"),
	vocabEntry("cto", "cto"),
	vocabEntry("cfo", "cfo"),
	vocabEntry("coo", "coo"),
	vocabEntry("sócio", "sócio"),
	vocabEntry("proprietário", "proprietário"),
	vocabEntry("fundador", "fundador"),
	vocabEntry("gestor", "gestor"),
	vocabEntry("líder", "líder"),
}

// interestAreas is the brand-neutral fallback vocabulary, used only
// when no tenant interest keyword matches.
var interestAreas = []keywordEntry{
	vocabEntry("erp", "erp"),
	vocabEntry("crm", "crm"),
	vocabEntry("gestão", "gestão"),
	vocabEntry("financeiro", "financeiro"),
	vocabEntry("fiscal", "fiscal"),
	vocabEntry("contábil", "contábil"),
	vocabEntry("recursos humanos", "recursos humanos"),
	vocabEntry("rh", "rh"),
	vocabEntry("vendas", "vendas"),
	vocabEntry("compras", "compras"),
	vocabEntry("estoque", "estoque"),
	vocabEntry("produção", "produção"),
	vocabEntry("logística", "logística"),
	vocabEntry("business intelligence", "business intelligence"),
	vocabEntry("bi", "bi"),
}

// urgencyLevels maps urgency terms to the fixed enum.
var urgencyLevels = []keywordEntry{
	vocabEntry("urgente", "Urgente"),
	vocabEntry("urgência", "Urgente"),
	vocabEntry("rápido", "Alta"),
	vocabEntry("logo", "Alta"),
	vocabEntry("médio", "Média"),
	vocabEntry("normal", "Média"),
	vocabEntry("baixo", "Baixa"),
	vocabEntry("sem pressa", "Baixa"),
}

// publicEmailDomains are consumer webmail providers. Corporate-domain
// addresses are preferred over these when several emails appear.
var publicEmailDomains = map[string]bool{
	"gmail.com":    true,
	"yahoo.com":    true,
	"hotmail.com":  true,
	"outlook.com":  true,
	"uol.com.br":   true,
	"bol.com.br":   true,
	"terra.com.br": true,
	"ig.com.br":    true,
	"globo.com":    true,
}
