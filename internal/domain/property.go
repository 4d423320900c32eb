package domain

// Property represents a listed property. Read-only for this service.
type Property struct {
	ID          int64
	AgentID     int64
	Title       string
	Type        string
	Price       *float64
	Address     string
	City        string
	Province    *string
	BrochureURL *string
	IsActive    bool
}

// FullAddress returns "Address, City (Province)"
func (p *Property) FullAddress() string {
	addr := p.Address
	if p.City != "" {
		addr += ", " + p.City
	}
	if p.Province != nil && *p.Province != "" {
		addr += " (" + *p.Province + ")"
	}
	return addr
}

// HasBrochure returns true if a brochure link is available
func (p *Property) HasBrochure() bool {
	return p.BrochureURL != nil && *p.BrochureURL != ""
}
