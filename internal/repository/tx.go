package repository

import "gorm.io/gorm"

// TxRunner wraps gorm's Transaction so services can be exercised without a
// live database.
type TxRunner struct {
	DB *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{DB: db}
}

func (r *TxRunner) InTx(fn func(tx *gorm.DB) error) error {
	return r.DB.Transaction(fn)
}
