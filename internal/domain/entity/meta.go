package entity

// Claves de metadatos planos que persiste el motor de costos.
const (
	MetaProductCost           = "_cogs_cost"
	MetaProductDefaultCost    = "_cogs_default_cost"
	MetaProductMinVariantCost = "_cogs_min_variant_cost"
	MetaProductMaxVariantCost = "_cogs_max_variant_cost"
	MetaProductUsesDefault    = "_cogs_uses_default_cost"

	MetaOrderTotalCost = "_cogs_order_total_cost"

	MetaItemCost      = "_cogs_item_cost"
	MetaItemTotalCost = "_cogs_item_total_cost"
)

// Opciones globales (cursor de trabajos reanudables).
const (
	OptionApplyCostsOffset      = "cogs_apply_costs_offset"
	OptionVariableProductOffset = "cogs_variable_product_offset"
)

// Valores del flag _cogs_uses_default_cost.
const (
	MetaYes = "yes"
	MetaNo  = "no"
)
