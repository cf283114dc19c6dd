package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultProfilePicture = "public/img/sandy.png"

type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"                    json:"id"`
	Username       string    `gorm:"uniqueIndex;not null"                        json:"username"`
	Summary        *string   `json:"summary"`
	ProfilePicture string    `gorm:"not null;default:public/img/sandy.png"       json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
}

func (User) TableName() string { return "fab_user" }

type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	ParentID *uint  `gorm:"index"                    json:"parent_id"`
}

func (Category) TableName() string { return "category" }

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"          json:"id"`
	Title         string          `gorm:"not null"                          json:"title"`
	Description   string          `gorm:"not null"                          json:"description"`
	Schedule      *time.Time      `json:"schedule"`
	FabUserID     uint            `gorm:"index;not null"                    json:"fab_user_id"`
	StartDate     time.Time       `gorm:"autoCreateTime"                    json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
	SubcategoryID uint            `gorm:"index;not null"                    json:"subcategory_id"`
	Hashtags      string          `json:"hashtags"`
	StPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"       json:"st_price"`
	CreatedAt     time.Time       `gorm:"index"                             json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	IsRemoved     bool            `gorm:"not null;default:false;index"      json:"is_removed"`

	Gallery []Gallery `gorm:"foreignKey:ProductID" json:"gallery,omitempty"`
	Routes  []Route   `gorm:"foreignKey:ProductID" json:"routes,omitempty"`
}

func (Product) TableName() string { return "product" }

type Gallery struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Resource  string `gorm:"not null"                 json:"resource"`
	ProductID uint   `gorm:"index;not null"           json:"product_id"`
}

func (Gallery) TableName() string { return "gallery" }

type Route struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Source    string `gorm:"not null"                 json:"source"`
	ProductID uint   `gorm:"index;not null"           json:"product_id"`
}

func (Route) TableName() string { return "route" }

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Score     int       `gorm:"not null"                 json:"score"`
	Comment   *string   `json:"comment"`
	FabUserID uint      `gorm:"index;not null"           json:"fab_user_id"`
	ProductID uint      `gorm:"index;not null"           json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string { return "review" }

// Wishlist is a (user, product) membership row; the unique index backs the toggle.
type Wishlist struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                         json:"id"`
	FabUserID uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null"  json:"fab_user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null"  json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Wishlist) TableName() string { return "wishlist" }

// CartItem is one add-to-cart action. There is no quantity: adding twice makes two rows.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	FabUserID uint `gorm:"index;not null"           json:"fab_user_id"`
	ProductID uint `gorm:"not null"                 json:"product_id"`
}

func (CartItem) TableName() string { return "customer" }

type OrderStatus string

const OrderStatusNew OrderStatus = "new"

type Order struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	FabUserID uint            `gorm:"index;not null"            json:"fab_user_id"`
	Status    OrderStatus     `gorm:"type:varchar(16);not null" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	CreatedAt time.Time       `json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string { return "fab_order" }

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Title     string          `gorm:"not null"                    json:"title"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func (OrderItem) TableName() string { return "fab_order_item" }

func All() []any {
	return []any{
		&User{}, &Category{}, &Product{}, &Gallery{}, &Route{},
		&Review{}, &Wishlist{}, &CartItem{}, &Order{}, &OrderItem{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
