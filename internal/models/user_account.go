package models

import "encoding/json"

// PackageNone is the stored marker for "no active package".
const PackageNone = "None"

// UserAccount maps to the `user_accounts` table.
// Primary key is the Telegram user ID.
type UserAccount struct {
	UserID         int64  `gorm:"column:user_id;primaryKey" json:"user_id"`
	Package        string `gorm:"column:package;size:50;default:'None'" json:"package"`
	SpinsAvailable int    `gorm:"column:spins_available;default:0" json:"spins_available"`
	TotalSpins     int    `gorm:"column:total_spins;default:0" json:"total_spins"`
	Hits           int    `gorm:"column:hits;default:0" json:"hits"`
	SpinPoints     int    `gorm:"column:spin_points;default:0" json:"spin_points"`
	Level          string `gorm:"column:level;size:50;default:'Spinner'" json:"level"`
	NFTs           string `gorm:"column:nfts;type:text" json:"nfts"`
	Referrals      int    `gorm:"column:referrals;default:0" json:"referrals"`
	ReferredBy     int64  `gorm:"column:referred_by;default:0" json:"referred_by"`
	PaymentMethod  string `gorm:"column:payment_method;size:20" json:"payment_method"`
	CreatedAt      int64  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      int64  `gorm:"column:updated_at" json:"updated_at"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}

// HasActivePackage reports whether the user currently holds a package.
func (u *UserAccount) HasActivePackage() bool {
	return u.Package != "" && u.Package != PackageNone
}

// NFTList decodes the JSON-encoded NFT collection.
func (u *UserAccount) NFTList() []string {
	if u.NFTs == "" {
		return nil
	}
	var nfts []string
	if err := json.Unmarshal([]byte(u.NFTs), &nfts); err != nil {
		return nil
	}
	return nfts
}

// AppendNFT appends an awarded NFT name to the collection.
func (u *UserAccount) AppendNFT(name string) {
	nfts := append(u.NFTList(), name)
	raw, err := json.Marshal(nfts)
	if err != nil {
		return
	}
	u.NFTs = string(raw)
}
