package planning

import (
	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
)

var csvColumns = []string{"atividade", "dimensao", "valortotal", "origemrecurso"}

var jsonFields = []string{"atividade", "dimensão", "valor total", "origem recurso"}

// Accepted column names per attribute. CSV headers are only lower-cased while
// JSON keys are also folded and stripped of spaces, so both spellings are listed.
var (
	dimensionKeys           = []string{"dimensao", "dimensão"}
	functionalComponentKeys = []string{"componentefuncional", "componente funcional", "componente"}
	processKeys             = []string{"processo"}
	nameKeys                = []string{"atividade", "nome"}
	descriptionKeys         = []string{"descricao", "descrição"}
	amountKeys              = []string{"valortotal", "valor total", "valor"}
	resourceOriginKeys      = []string{"origemrecurso", "origem recurso", "origem"}
	expenseNatureKeys       = []string{"naturezadespesa", "natureza despesa", "natureza"}
	internalPlanKeys        = []string{"planointerno", "plano interno", "plano"}
)

func readRows(filename string, data []byte) ([]importer.Row, error) {
	switch importer.Extension(filename) {
	case ".csv":
		return importer.ParseDelimited(importer.DecodeText(data), csvColumns)
	case ".json":
		return importer.ParseStructured(data, jsonFields)
	default:
		return nil, importer.CheckExtension(filename, ".csv", ".json")
	}
}

func activityFromRow(row importer.Row, amountParser currency.Parser) (Activity, error) {
	activity := Activity{
		Dimension:           importer.First(row, dimensionKeys...),
		FunctionalComponent: importer.First(row, functionalComponentKeys...),
		Process:             importer.First(row, processKeys...),
		Name:                importer.First(row, nameKeys...),
		Description:         importer.First(row, descriptionKeys...),
		ResourceOrigin:      importer.First(row, resourceOriginKeys...),
		ExpenseNature:       importer.First(row, expenseNatureKeys...),
		InternalPlan:        importer.First(row, internalPlanKeys...),
	}
	if activity.Name == "" || activity.Dimension == "" {
		return Activity{}, ErrMissingRequiredFields
	}

	amount, err := amountParser.Parse(importer.First(row, amountKeys...))
	if err != nil {
		return Activity{}, err
	}
	activity.PlannedAmount = amount
	return activity, nil
}
