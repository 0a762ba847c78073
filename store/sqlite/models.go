package sqlite

import (
	"github.com/xraph/grove"

	"github.com/xraph/carbon/id"
	"github.com/xraph/carbon/record"
)

// recordModel is one row of carbon_emission_records. The table also carries
// a seq column assigned by the database, which fixes append order, and a
// created_at column filled by its default. Neither is read back.
type recordModel struct {
	grove.BaseModel `grove:"table:carbon_emission_records"`

	ID        string `grove:"id,pk"`
	Account   string `grove:"account"`
	Timestamp int64  `grove:"ts"`
	Amount    int64  `grove:"amount"`
	Category  string `grove:"category"`
}

func toRecordModel(r record.Record) *recordModel {
	return &recordModel{
		ID:        r.ID.String(),
		Account:   r.Account,
		Timestamp: r.Timestamp,
		Amount:    r.Amount,
		Category:  r.Category,
	}
}

func fromRecordModel(m *recordModel) (record.Record, error) {
	recID, err := id.ParseRecordID(m.ID)
	if err != nil {
		return record.Record{}, err
	}

	return record.Record{
		ID:        recID,
		Account:   m.Account,
		Timestamp: m.Timestamp,
		Amount:    m.Amount,
		Category:  m.Category,
	}, nil
}
