package db

import (
	"time"
)

// Node model, address and rpc credentials are stored encrypted
type Node struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Label       string    `gorm:"not null" json:"label"`
	Scheme      string    `gorm:"not null" json:"scheme"`
	Address     []byte    `gorm:"not null" json:"-"`
	RPCUser     []byte    `gorm:"not null" json:"-"`
	RPCPassword []byte    `gorm:"not null" json:"-"`
	IsActive    bool      `gorm:"not null;index:node_active_index" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// Wallet model, Name is the wallet name loaded on the node
type Wallet struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index:wallet_name_index" json:"name"`
	Label     string    `json:"label"`
	NodeID    string    `gorm:"not null" json:"node_id"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Utxo model (cached listunspent entry of one wallet)
type Utxo struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	WalletID      string    `gorm:"not null;index:utxo_wallet_index" json:"wallet_id"`
	Txid          string    `gorm:"not null" json:"txid"`
	Vout          uint32    `gorm:"not null" json:"vout"`
	Amount        float64   `gorm:"not null" json:"amount"`
	AmountSats    int64     `gorm:"not null" json:"amount_sats"`
	Confirmations int64     `gorm:"not null" json:"confirmations"`
	Spendable     bool      `gorm:"not null" json:"spendable"`
	Solvable      bool      `gorm:"not null" json:"solvable"`
	Safe          bool      `gorm:"not null" json:"safe"`
	Reused        *bool     `json:"reused,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Desc          *string   `json:"desc,omitempty"`
	Label         *string   `json:"label,omitempty"`
	ScriptPubKey  string    `json:"script_pub_key"`
	RedeemScript  *string   `json:"redeem_script,omitempty"`
	WitnessScript *string   `json:"witness_script,omitempty"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
