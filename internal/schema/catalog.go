package schema

import "github.com/goliatone/go-unicms/internal/locale"

// Entity names of the built-in catalog.
const (
	OrganizationStructure = "organization_structure"
	Document              = "document"
	CollegeTab            = "college_tab"
	CollegeCard           = "college_card"
	Department            = "department"
	StaffMember           = "staff_member"
	QuotaType             = "quota_type"
	QuotaRequirement      = "quota_requirement"
	QuotaBenefit          = "quota_benefit"
	QuotaStat             = "quota_stat"
	AdditionalSupport     = "additional_support"
	ProcessStep           = "process_step"
	AcademicCouncil       = "academic_council"
	AdministrativeUnit    = "administrative_unit"
	Publication           = "publication"
)

// StructureTypeLabels labels organization structure types.
var StructureTypeLabels = locale.Labels{
	"faculty":    {RU: "Факультет", EN: "Faculty", KG: "Факультети"},
	"department": {RU: "Кафедра", EN: "Department", KG: "Кафедрасы"},
	"unit":       {RU: "Подразделение", EN: "Unit", KG: "Бөлүм"},
	"service":    {RU: "Служба", EN: "Service", KG: "Кызмат"},
	"center":     {RU: "Центр", EN: "Center", KG: "Борбор"},
}

// DocumentTypeLabels labels document types.
var DocumentTypeLabels = locale.Labels{
	"regulation":  {RU: "Положение", EN: "Regulation", KG: "Жобо"},
	"order":       {RU: "Приказ", EN: "Order", KG: "Буйрук"},
	"instruction": {RU: "Инструкция", EN: "Instruction", KG: "Нускама"},
	"charter":     {RU: "Устав", EN: "Charter", KG: "Устав"},
	"plan":        {RU: "План", EN: "Plan", KG: "План"},
	"report":      {RU: "Отчет", EN: "Report", KG: "Отчет"},
	"other":       {RU: "Другое", EN: "Other", KG: "Башка"},
}

var quotaTypeLabels = locale.Labels{
	"sports": {RU: "Спортивная квота", EN: "Sports quota", KG: "Спорттук квота"},
	"health": {RU: "Квота по здоровью", EN: "Health quota", KG: "Ден соолук боюнча квота"},
	"target": {RU: "Целевая квота", EN: "Target quota", KG: "Максаттуу квота"},
}

var publicationTypeLabels = locale.Labels{
	"article":    {RU: "Статья в журнале", EN: "Journal Article"},
	"conference": {RU: "Доклад на конференции", EN: "Conference Paper"},
	"book":       {RU: "Книга/Глава", EN: "Book/Chapter"},
	"patent":     {RU: "Патент", EN: "Patent"},
}

func text(name string) Field     { return Field{Name: name, Kind: KindText} }
func required(name string) Field { return Field{Name: name, Kind: KindText, Required: true} }
func list(name string) Field     { return Field{Name: name, Kind: KindList} }
func plain(name string) Field    { return Field{Name: name, Kind: KindPlain} }
func file(name string) Field     { return Field{Name: name, Kind: KindFile} }

func searchable(f Field) Field {
	f.Searchable = true
	return f
}

func code(name string, labels locale.Labels) Field {
	return Field{Name: name, Kind: KindCode, Labels: labels}
}

func parent(param, entity string, required bool) *ParentFilter {
	return &ParentFilter{Param: param, Entity: entity, Required: required}
}

// Catalog returns the university entity definitions.
func Catalog() []Definition {
	return []Definition{
		{
			Name: OrganizationStructure,
			Fields: []Field{
				searchable(required("name")),
				code("structure_type", StructureTypeLabels),
				text("description"),
				searchable(text("head")),
				list("responsibilities"),
				plain("email"),
				plain("phone"),
				file("image"),
			},
			Relations: []Relation{{Name: "children", Entity: OrganizationStructure, Kind: SelfParent, Nested: true}},
			Order:     OrderPolicy{Secondary: "name"},
			Parent:    parent("parent", OrganizationStructure, false),
			TypeField: "structure_type",
		},
		{
			Name: Document,
			Fields: []Field{
				searchable(required("title")),
				code("document_type", DocumentTypeLabels),
				searchable(text("description")),
				file("file"),
				plain("document_number"),
				plain("file_size"),
				plain("file_format"),
			},
			Order:     OrderPolicy{DateDesc: true, Secondary: "title"},
			TypeField: "document_type",
			DateField: "document_date",
		},
		{
			Name:      CollegeTab,
			Fields:    []Field{required("title"), file("icon")},
			Relations: []Relation{{Name: "cards", Entity: CollegeCard, Kind: HasMany, Nested: true}},
			Order:     OrderPolicy{Secondary: SortByID},
			ExposeKey: true,
		},
		{
			Name:   CollegeCard,
			Fields: []Field{searchable(required("title")), searchable(required("description"))},
			Order:  OrderPolicy{Secondary: SortByID},
			Parent: parent("tab", CollegeTab, true),
		},
		{
			Name:      Department,
			Fields:    []Field{searchable(required("name")), text("description"), file("image")},
			Relations: []Relation{{Name: "staff", Entity: StaffMember, Kind: HasMany, Nested: true}},
			Order:     OrderPolicy{Secondary: "name"},
			ExposeKey: true,
		},
		{
			Name:   StaffMember,
			Fields: []Field{searchable(required("name")), required("position"), file("resume"), file("photo")},
			Order:  OrderPolicy{Secondary: "name"},
			Parent: parent("department", Department, false),
		},
		{
			Name: QuotaType,
			Fields: []Field{
				code("type", quotaTypeLabels),
				required("title"),
				required("description"),
				plain("icon"),
				plain("spots"),
				plain("deadline"),
				plain("color"),
			},
			Relations: []Relation{
				{Name: "requirements", Entity: QuotaRequirement, Kind: HasMany, Nested: true},
				{Name: "benefits", Entity: QuotaBenefit, Kind: HasMany, Nested: true},
			},
			Order:     OrderPolicy{Secondary: "type"},
			TypeField: "type",
		},
		{
			Name:   QuotaRequirement,
			Fields: []Field{required("requirement")},
			Order:  OrderPolicy{Secondary: SortByID},
			Parent: parent("quota", QuotaType, false),
		},
		{
			Name:   QuotaBenefit,
			Fields: []Field{required("benefit")},
			Order:  OrderPolicy{Secondary: SortByID},
			Parent: parent("quota", QuotaType, false),
		},
		{
			Name:   QuotaStat,
			Fields: []Field{code("stat_type", nil), plain("number"), required("label"), text("description")},
			Order:  OrderPolicy{Secondary: "stat_type"},
		},
		{
			Name:   AdditionalSupport,
			Fields: []Field{required("support")},
			Order:  OrderPolicy{Secondary: SortByID},
		},
		{
			Name:   ProcessStep,
			Fields: []Field{plain("step_number"), required("title"), required("description"), plain("color_scheme")},
			Order:  OrderPolicy{Secondary: "step_number"},
		},
		{
			Name: AcademicCouncil,
			Fields: []Field{
				searchable(required("name")),
				required("position"),
				text("department"),
				list("achievements"),
				plain("email"),
				plain("phone"),
				file("image"),
			},
			Order:     OrderPolicy{DateDesc: true, Secondary: "name"},
			DateField: "appointed_at",
		},
		{
			Name: AdministrativeUnit,
			Fields: []Field{
				searchable(required("name")),
				text("head"),
				list("responsibilities"),
				plain("email"),
				plain("phone"),
			},
			Order: OrderPolicy{Secondary: "name"},
		},
		{
			Name: Publication,
			Fields: []Field{
				searchable(required("title")),
				searchable(text("author")),
				text("abstract"),
				plain("journal"),
				plain("year"),
				plain("doi"),
				plain("url"),
				code("publication_type", publicationTypeLabels),
				file("pdf_file"),
				file("image"),
			},
			Order:     OrderPolicy{DateDesc: true, Secondary: "title"},
			TypeField: "publication_type",
			DateField: "publication_date",
		},
	}
}
