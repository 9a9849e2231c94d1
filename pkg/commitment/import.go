package commitment

import (
	"time"

	"github.com/cristianoafs081993/love-execu-o/pkg/currency"
	"github.com/cristianoafs081993/love-execu-o/pkg/importer"
	log "github.com/sirupsen/logrus"
)

var csvColumns = []string{"numero", "descricao", "valor", "dimensao", "origemrecurso", "naturezadespesa", "dataempenho", "status"}

var (
	numberKeys              = []string{"numero", "número"}
	descriptionKeys         = []string{"descricao", "descrição"}
	amountKeys              = []string{"valor", "valortotal"}
	dimensionKeys           = []string{"dimensao", "dimensão"}
	functionalComponentKeys = []string{"componentefuncional", "componente"}
	resourceOriginKeys      = []string{"origemrecurso", "origem"}
	expenseNatureKeys       = []string{"naturezadespesa", "natureza"}
	internalPlanKeys        = []string{"planointerno", "plano"}
	beneficiaryNameKeys     = []string{"favorecido", "favorecidonome"}
	beneficiaryDocKeys      = []string{"favorecidodocumento", "cnpj", "cpf"}
	dateKeys                = []string{"dataempenho", "data"}
	statusKeys              = []string{"status"}
	activityKeys            = []string{"atividadeid"}
)

func readRows(filename string, data []byte) ([]importer.Row, error) {
	if err := importer.CheckExtension(filename, ".csv"); err != nil {
		return nil, err
	}
	return importer.ParseDelimited(importer.DecodeText(data), csvColumns)
}

func commitmentFromRow(row importer.Row, amountParser currency.Parser, now time.Time) (Commitment, error) {
	commitment := Commitment{
		Number:              importer.First(row, numberKeys...),
		Description:         importer.First(row, descriptionKeys...),
		Dimension:           importer.First(row, dimensionKeys...),
		FunctionalComponent: importer.First(row, functionalComponentKeys...),
		ResourceOrigin:      importer.First(row, resourceOriginKeys...),
		ExpenseNature:       importer.First(row, expenseNatureKeys...),
		InternalPlan:        importer.First(row, internalPlanKeys...),
		BeneficiaryName:     importer.First(row, beneficiaryNameKeys...),
		BeneficiaryDocument: importer.First(row, beneficiaryDocKeys...),
		ActivityId:          importer.First(row, activityKeys...),
		Date:                importer.ParseDate(importer.First(row, dateKeys...), now),
	}
	if commitment.Number == "" || commitment.Dimension == "" {
		return Commitment{}, ErrMissingRequiredFields
	}

	amount, err := amountParser.Parse(importer.First(row, amountKeys...))
	if err != nil {
		return Commitment{}, err
	}
	commitment.Amount = amount

	commitment.Status = StatusPending
	if text := importer.First(row, statusKeys...); text != "" {
		status, err := ParseStatus(text)
		if err != nil {
			log.Warnf("commitment %s has unknown status %q, using %s", commitment.Number, text, StatusPending)
		} else {
			commitment.Status = status
		}
	}
	return commitment, nil
}
