package users

import (
	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
)

// Profile is the storefront view of a user's account document.
type Profile struct {
	ID          uuid.UUID
	Email       string
	DisplayName *string
	Phone       *string
	PhotoURL    *string
	Role        enums.UserRole
	SellerID    *uuid.UUID
}

// Address is one entry of the user's address book.
type Address struct {
	ID         uuid.UUID
	Label      *string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// Session is the issued token pair plus the authenticated profile.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         Profile
}

func toProfileDoc(p Profile) gateway.ProfileDoc {
	doc := gateway.ProfileDoc{
		UID:         p.ID.String(),
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		PhotoURL:    p.PhotoURL,
	}
	if p.Role != "" {
		role := p.Role.String()
		doc.Role = &role
	}
	if p.SellerID != nil {
		sellerID := p.SellerID.String()
		doc.SellerID = &sellerID
	}
	return doc
}

func fromProfileDoc(doc gateway.ProfileDoc) (Profile, error) {
	id, err := uuid.Parse(doc.UID)
	if err != nil {
		return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse user id")
	}

	profile := Profile{
		ID:          id,
		Email:       doc.Email,
		DisplayName: doc.DisplayName,
		Phone:       doc.Phone,
		PhotoURL:    doc.PhotoURL,
		Role:        enums.UserRoleShopper,
	}
	if doc.Role != nil {
		role, err := enums.ParseUserRole(*doc.Role)
		if err != nil {
			return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse user role")
		}
		profile.Role = role
	}
	if doc.SellerID != nil {
		sellerID, err := uuid.Parse(*doc.SellerID)
		if err != nil {
			return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse seller id")
		}
		profile.SellerID = &sellerID
	}
	return profile, nil
}

func toAddressDoc(a Address) gateway.AddressDoc {
	return gateway.AddressDoc{
		ID:         a.ID.String(),
		Label:      a.Label,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}

func fromAddressDoc(doc gateway.AddressDoc) (Address, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return Address{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse address id")
	}
	return Address{
		ID:         id,
		Label:      doc.Label,
		Line1:      doc.Line1,
		Line2:      doc.Line2,
		City:       doc.City,
		State:      doc.State,
		PostalCode: doc.PostalCode,
		Country:    doc.Country,
		IsDefault:  doc.IsDefault,
	}, nil
}
