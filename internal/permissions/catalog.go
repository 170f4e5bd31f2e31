package permissions

// Module is a functional capability unit the console exposes. A role grants
// a set of module ids.
type Module struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Catalog lists every department module of the console. Role grants
// reference these ids; ids never change once shipped.
var Catalog = []Module{
	{ID: "assistencia", Name: "Assistência 24H", Icon: "fa-truck-medical"},
	{ID: "financeiro", Name: "Financeiro", Icon: "fa-coins"},
	{ID: "operacional", Name: "Operacional", Icon: "fa-clipboard-list"},
	{ID: "comercial", Name: "Comercial", Icon: "fa-handshake"},
	{ID: "relatorios", Name: "Relatórios", Icon: "fa-chart-line"},
	{ID: "cadastros", Name: "Cadastros", Icon: "fa-address-book"},
}

// KnownModule reports whether id names a catalog module.
func KnownModule(id string) bool {
	for _, m := range Catalog {
		if m.ID == id {
			return true
		}
	}
	return false
}
