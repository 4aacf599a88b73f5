// Package fulfillment contains the Fulfillment Sync bounded context.
// This context keeps orders and stock levels consistent between a third-party
// fulfillment provider (warehouse/shipping) and the merchant catalog/ERP.
//
// Key concepts:
//   - Order: an order as known to the fulfillment provider (read-only here)
//   - CatalogOrderEvent: an order-change notification emitted by the catalog
//   - CatalogOrder: the write shape sent back to the catalog order endpoint
//   - StatusTranslator: pure mapping from provider status codes to catalog state
//   - SKUResolver: maps provider product references to catalog SKUs
//   - Result: explicit Success / NotFound / TransportError outcome of a gateway read
//
// Design Pattern: Ports & Adapters
//   - Ports (gateway and repository interfaces) are defined here in the domain layer
//   - Adapters (HTTP gateways, GORM repositories) are in the infrastructure layer
package fulfillment
