package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrInvalidEnum is wrapped by every parse, Value and Scan failure in this file.
var ErrInvalidEnum = errors.New("invalid enum value")

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

// UserRoles lists every accepted role in declaration order.
var UserRoles = []UserRole{RoleAdmin, RoleManager, RoleUser}

func (r UserRole) String() string {
	return string(r)
}

// Valid reports whether r is one of the declared roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// ParseUserRole converts a stored or user-supplied string into a UserRole.
func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: user role %q", ErrInvalidEnum, s)
	}
	return r, nil
}

// Value implements driver.Valuer and refuses to write unknown roles.
func (r UserRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: user role %q", ErrInvalidEnum, string(r))
	}
	return string(r), nil
}

// Scan implements sql.Scanner.
func (r *UserRole) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan user role: %w", err)
	}
	parsed, err := ParseUserRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type ResourceType string

const (
	ResourceEquipment ResourceType = "equipment"
	ResourceRoom      ResourceType = "room"
	ResourceVehicle   ResourceType = "vehicle"
	ResourceOther     ResourceType = "other"
)

// ResourceTypes lists every accepted resource type in declaration order.
var ResourceTypes = []ResourceType{ResourceEquipment, ResourceRoom, ResourceVehicle, ResourceOther}

func (t ResourceType) String() string {
	return string(t)
}

// Valid reports whether t is one of the declared resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceEquipment, ResourceRoom, ResourceVehicle, ResourceOther:
		return true
	}
	return false
}

// ParseResourceType converts a stored or user-supplied string into a ResourceType.
func ParseResourceType(s string) (ResourceType, error) {
	t := ResourceType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: resource type %q", ErrInvalidEnum, s)
	}
	return t, nil
}

// Value implements driver.Valuer and refuses to write unknown types.
func (t ResourceType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: resource type %q", ErrInvalidEnum, string(t))
	}
	return string(t), nil
}

// Scan implements sql.Scanner.
func (t *ResourceType) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan resource type: %w", err)
	}
	parsed, err := ParseResourceType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("%w: unexpected NULL", ErrInvalidEnum)
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidEnum, src)
	}
}
