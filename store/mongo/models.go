package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/carbon/id"
	"github.com/xraph/carbon/record"
)

type recordModel struct {
	grove.BaseModel `grove:"table:carbon_emission_records"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Account   string    `grove:"account"    bson:"account"`
	Seq       int64     `grove:"seq"        bson:"seq"`
	Timestamp int64     `grove:"ts"         bson:"ts"`
	Amount    int64     `grove:"amount"     bson:"amount"`
	Category  string    `grove:"category"   bson:"category"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
}

// counterModel holds the last sequence number handed out for an account.
type counterModel struct {
	Account string `bson:"_id"`
	Seq     int64  `bson:"seq"`
}

func toRecordModel(r record.Record, seq int64) *recordModel {
	return &recordModel{
		ID:        r.ID.String(),
		Account:   r.Account,
		Seq:       seq,
		Timestamp: r.Timestamp,
		Amount:    r.Amount,
		Category:  r.Category,
		CreatedAt: time.Now().UTC(),
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
