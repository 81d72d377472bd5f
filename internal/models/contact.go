package models

import "time"

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	OwnerID   int64     `json:"-"`
	Owner     OwnerRef  `json:"owner"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// OwnerRef is the owner as exposed alongside a contact; never carries credentials.
type OwnerRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// OwnedBy reports whether p owns the contact.
func (c *Contact) OwnedBy(p *Principal) bool {
	return p != nil && c.OwnerID == p.ID
}

// Apply copies the editable fields of f onto the contact. Id and owner are left untouched.
func (c *Contact) Apply(f ContactForm) {
	c.Name = f.Name
	c.Email = f.Email
	c.Phone = f.Phone
}

// Form returns the editable fields of the contact, for prefilling the edit form.
func (c *Contact) Form() ContactForm {
	return ContactForm{Name: c.Name, Email: c.Email, Phone: c.Phone}
}
