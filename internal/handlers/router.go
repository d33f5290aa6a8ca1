package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/middleware"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/token"
)

// Handlers bundles the endpoint groups for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Department *DepartmentHandler
	Tag        *TagHandler
	Task       *TaskHandler
	Comment    *CommentHandler
	WorkTime   *WorkTimeHandler
}

// RegisterRoutes mounts the public login endpoint and the authenticated
// web-api group.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens *token.Manager, auth *services.AuthService) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/login", h.Auth.Login)

	web := api.Group("/web-api")
	web.Use(middleware.RequireAuth(tokens, auth))
	{
		web.POST("/logout", h.Auth.Logout)

		web.GET("/current-profile/get", h.Profile.Current)
		web.POST("/profile/update", h.Profile.Update)
		web.POST("/avatar/upload", h.Profile.UploadAvatar)
		web.GET("/profile/info", h.Profile.Info)
		web.GET("/profile/info/specific", h.Profile.InfoSpecific)
		web.GET("/profile/list/no-pagination", h.Profile.ListNoPagination)

		web.GET("/department/list", h.Department.List)
		web.GET("/department/list/no-pagination", h.Department.ListNoPagination)
		web.GET("/members/list", h.Department.Members)

		web.GET("/tag/list", h.Tag.List)
		web.GET("/tag/member", h.Tag.ListSpecific)
		web.GET("/my-tag/list", h.Tag.MyList)
		web.GET("/my-tag/list/no-pagination", h.Tag.MyListNoPagination)
		web.GET("/tag/member/detail", h.Tag.DetailSpecific)
		web.GET("/my-tag/detail", h.Tag.MyDetail)
		web.POST("/new-tag/add", h.Tag.Create)
		web.POST("/tag/member/edit", h.Tag.MemberEdit)
		web.POST("/my-tag/edit", h.Tag.MyEdit)
		web.POST("/my-tag/computation", h.Tag.Computation)
		web.GET("/tag/list/statistics", h.Tag.Statistic)
		web.GET("/tag/member/list/statistics", h.Tag.StatisticSpecific)
		web.GET("/my-tag/list/statistics", h.Tag.MyStatistic)

		web.GET("/task/list", h.Task.ListSpecific)
		web.GET("/my-task/list", h.Task.MyList)
		web.GET("/task/member/detail", h.Task.DetailSpecific)
		web.GET("/my-task/detail", h.Task.MyDetail)
		web.POST("/new-task/add", h.Task.Create)
		web.POST("/my-task/edit", h.Task.MyEdit)

		// Both comment lists share one handler; the service gives the
		// task owner and their supervisors the same view.
		web.GET("/task/comment/list", h.Comment.List)
		web.GET("/my-task/comment/list", h.Comment.List)
		web.POST("/my-task/comment/add", h.Comment.Add)
		web.POST("/task/comment/add", h.Comment.AddSpecific)
		web.POST("/my-task/comment/edit", h.Comment.Edit)

		web.GET("/my-work-time/list", h.WorkTime.MyList)
		web.GET("/work-time/member/list", h.WorkTime.ListSpecific)
		web.POST("/my-work-time/add", h.WorkTime.Add)
		web.POST("/my-work-time/edit", h.WorkTime.Edit)
		web.GET("/my-work-time/statistic", h.WorkTime.MyStatistic)
		web.GET("/work-time/member/statistic", h.WorkTime.StatisticSpecific)
	}
}
