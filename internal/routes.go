package internal

import (
	"net/http"

	"catalogd/internal/controllers"
	"catalogd/internal/providers"
	"catalogd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, adminController *controllers.AdminController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/products", http.HandlerFunc(apiController.GetProducts))
	routers.Get("/product", http.HandlerFunc(apiController.GetProduct))
	routers.Get("/categories", http.HandlerFunc(apiController.GetCategories))
	routers.Get("/category", http.HandlerFunc(apiController.GetCategory))
	routers.Get("/brands", http.HandlerFunc(apiController.GetBrands))
	routers.Get("/brand", http.HandlerFunc(apiController.GetBrand))
	routers.Get("/promotions", http.HandlerFunc(apiController.GetPromotions))
	routers.Get("/promotion", http.HandlerFunc(apiController.GetPromotion))
	routers.Get("/site-info", http.HandlerFunc(apiController.GetSiteInfo))
	routers.Get("/page", http.HandlerFunc(apiController.GetPage))

	admin := routers.Group("/admin")
	admin.Get("/activities", http.HandlerFunc(adminController.GetActivities))
	admin.Post("/activity", http.HandlerFunc(adminController.RecordActivity))
	admin.Post("/activities/clear", http.HandlerFunc(adminController.ClearActivities))
	admin.Get("/backups", http.HandlerFunc(adminController.GetBackups))
	admin.Post("/backup", http.HandlerFunc(adminController.CreateBackup))
	admin.Post("/restore", http.HandlerFunc(adminController.RestoreBackup))
	admin.Post("/backup/delete", http.HandlerFunc(adminController.DeleteBackup))
	admin.Post("/site-info", http.HandlerFunc(adminController.UpdateSiteInfo))
	admin.Get("/site-info/export", http.HandlerFunc(adminController.ExportSiteInfo))
	admin.Post("/page", http.HandlerFunc(adminController.UpdatePage))
	admin.Post("/validate", http.HandlerFunc(adminController.ValidateDocument))
	return routers
}
