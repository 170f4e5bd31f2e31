package dto

type ModuleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type ModuleListResponse struct {
	Modules []ModuleResponse `json:"modules"`
}
