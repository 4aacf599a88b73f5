// Package models contains the GORM persistence models. They stay separate
// from the domain types so the domain layer carries no ORM tags; each model
// provides ToDomain and a FromDomain constructor.
package models
