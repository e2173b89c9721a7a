package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Views are the only shapes handed to the JSON encoder. Each nests related
// records one level deep and never points back at its owner.

type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type BookSummary struct {
	ID     uint            `json:"id"`
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Price  decimal.Decimal `json:"price"`
}

type BookView struct {
	ID                      uint            `json:"id"`
	Title                   string          `json:"title"`
	Author                  string          `json:"author"`
	Price                   decimal.Decimal `json:"price"`
	Stock                   int             `json:"stock"`
	Description             string          `json:"description"`
	IsAvailableForBorrowing bool            `json:"is_available_for_borrowing"`
	CoverURL                string          `json:"cover_url,omitempty"`
	Category                *CategoryView   `json:"category,omitempty"`
}

type OrderLineView struct {
	BookID   uint        `json:"book_id"`
	Quantity int         `json:"quantity"`
	Book     BookSummary `json:"book"`
}

type OrderView struct {
	ID        uint            `json:"id"`
	OrderDate time.Time       `json:"order_date"`
	Status    string          `json:"status"`
	User      UserSummary     `json:"user"`
	Books     []OrderLineView `json:"books"`
}

type CartItemView struct {
	ID       uint        `json:"id"`
	BookID   uint        `json:"book_id"`
	Quantity int         `json:"quantity"`
	Book     BookSummary `json:"book"`
}

type CartView struct {
	ID     uint           `json:"id"`
	UserID uint           `json:"user_id"`
	Items  []CartItemView `json:"items"`
}

type BorrowingView struct {
	ID         uint        `json:"id"`
	BorrowDate time.Time   `json:"borrow_date"`
	DueDate    time.Time   `json:"due_date"`
	ReturnDate *time.Time  `json:"return_date"`
	User       UserSummary `json:"user"`
	Book       BookSummary `json:"book"`
}

type TransactionView struct {
	ID                uint            `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionDate   time.Time       `json:"transaction_date"`
	MpesaReceipt      string          `json:"mpesa_receipt"`
	Status            string          `json:"status"`
	CheckoutRequestID *string         `json:"checkout_request_id,omitempty"`
	GatewayPayload    datatypes.JSON  `json:"gateway_payload,omitempty"`
	User              UserSummary     `json:"user"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

func (c Category) View() CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name}
}

func (b Book) Summary() BookSummary {
	return BookSummary{ID: b.ID, Title: b.Title, Author: b.Author, Price: b.Price}
}

func (b Book) View() BookView {
	v := BookView{
		ID:                      b.ID,
		Title:                   b.Title,
		Author:                  b.Author,
		Price:                   b.Price,
		Stock:                   b.Stock,
		Description:             b.Description,
		IsAvailableForBorrowing: b.IsAvailableForBorrowing,
		CoverURL:                b.CoverURL,
	}
	if b.Category != nil {
		cv := b.Category.View()
		v.Category = &cv
	}
	return v
}

func (o Order) View() OrderView {
	lines := make([]OrderLineView, 0, len(o.Books))
	for _, ob := range o.Books {
		lines = append(lines, OrderLineView{BookID: ob.BookID, Quantity: ob.Quantity, Book: ob.Book.Summary()})
	}
	return OrderView{
		ID:        o.ID,
		OrderDate: o.OrderDate,
		Status:    o.Status,
		User:      o.User.Summary(),
		Books:     lines,
	}
}

func (c Cart) View() CartView {
	items := make([]CartItemView, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartItemView{ID: it.ID, BookID: it.BookID, Quantity: it.Quantity, Book: it.Book.Summary()})
	}
	return CartView{ID: c.ID, UserID: c.UserID, Items: items}
}

func (b Borrowing) View() BorrowingView {
	return BorrowingView{
		ID:         b.ID,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		User:       b.User.Summary(),
		Book:       b.Book.Summary(),
	}
}

func (t MpesaTransaction) View() TransactionView {
	return TransactionView{
		ID:                t.ID,
		Amount:            t.Amount,
		TransactionDate:   t.TransactionDate,
		MpesaReceipt:      t.MpesaReceipt,
		Status:            t.Status,
		CheckoutRequestID: t.CheckoutRequestID,
		GatewayPayload:    t.GatewayPayload,
		User:              t.User.Summary(),
	}
}

// ViewsOf maps fn over items.
func ViewsOf[T any, V any](items []T, fn func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
