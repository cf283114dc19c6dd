package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type UpdateProfileRequest struct {
	Username string `json:"username" form:"username" validate:"omitempty,max=150"`
	Summary  string `json:"summary"  form:"summary"  validate:"omitempty,max=2000"`
}

type CreateProductRequest struct {
	Title         string `json:"title"          form:"title"          validate:"required,max=255"`
	Description   string `json:"description"    form:"description"    validate:"required"`
	SubcategoryID uint   `json:"subcategory_id" form:"subcategory_id" validate:"required"`
	StPrice       Money  `json:"st_price"       form:"st_price"`
	Hashtags      string `json:"hashtags"       form:"hashtags"       validate:"max=500"`
	Source        string `json:"source"         form:"source"`
}

type UpdateProductRequest struct {
	Title           string `json:"title"            form:"title"            validate:"max=255"`
	Description     string `json:"description"      form:"description"`
	SubcategoryID   uint   `json:"subcategory_id"   form:"subcategory_id"`
	StPrice         Money  `json:"st_price"         form:"st_price"`
	Source          string `json:"source"           form:"source"`
	ResourceDeleted string `json:"resource_deleted" form:"resource_deleted"`
	SourceDeleted   string `json:"source_deleted"   form:"source_deleted"`
}

// Patch keeps only the fields that were supplied with a non-empty value.
func (r UpdateProductRequest) Patch() ProductPatch {
	var p ProductPatch
	if r.Title != "" {
		p.Title = &r.Title
	}
	if r.Description != "" {
		p.Description = &r.Description
	}
	if r.SubcategoryID != 0 {
		p.SubcategoryID = &r.SubcategoryID
	}
	if r.StPrice.Set {
		v := r.StPrice.Value
		p.StPrice = &v
	}
	return p
}

// ProductPatch is a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Title         *string
	Description   *string
	SubcategoryID *uint
	StPrice       *decimal.Decimal
}

// Columns renders the patch as an UPDATE column map. updated_at is always set.
func (p ProductPatch) Columns(now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.SubcategoryID != nil {
		cols["subcategory_id"] = *p.SubcategoryID
	}
	if p.StPrice != nil {
		cols["st_price"] = *p.StPrice
	}
	return cols
}

type WishlistToggleRequest struct {
	ProductID uint `json:"product_id" form:"product_id" validate:"required"`
}

type CreateReviewRequest struct {
	Score   Score  `json:"score"   form:"score"   validate:"required"`
	Comment string `json:"comment" form:"comment"`
}

// CommentOrNil maps an empty comment to NULL.
func (r CreateReviewRequest) CommentOrNil() *string {
	if r.Comment == "" {
		return nil
	}
	c := r.Comment
	return &c
}
