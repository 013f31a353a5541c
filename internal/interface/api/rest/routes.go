package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth          = RouteApiV1 + "/auth"
	RouteLogin         = RouteAuth + "/login"
	RouteDeleteAccount = RouteAuth + "/delete-account"

	// files
	RouteUpload          = RouteApiV1 + "/upload"
	RouteFiles           = RouteApiV1 + "/files"
	RouteFile            = RouteFiles + "/:file_id"
	RouteFileDownload    = RouteFile + "/download"
	RouteFilesBulkDelete = RouteFiles + "/bulk/delete"
	RouteFilesReconcile  = RouteFiles + "/reconcile"

	// data
	RouteData     = RouteApiV1 + "/data"
	RouteDataFile = RouteData + "/file/:file_id"

	// insights
	RouteInsights       = RouteApiV1 + "/insights"
	RouteInsightAnalyze = RouteInsights + "/:file_id/analyze"

	RouteDashboardSummary = RouteApiV1 + "/dashboard/summary"

	RouteUsers             = RouteApiV1 + "/users"
	RouteUser              = RouteUsers + "/:user_id"
	RouteUserDeletionStats = RouteUser + "/deletion-stats"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
