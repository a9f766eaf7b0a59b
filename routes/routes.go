package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/hopeworks/nonprofit-platform-go/config"
	controllers "github.com/hopeworks/nonprofit-platform-go/controllers"
	middleware "github.com/hopeworks/nonprofit-platform-go/middleware"
	models "github.com/hopeworks/nonprofit-platform-go/models"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	auth := middleware.Auth(cfg)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// users + approval workflow
	users := r.Group("/users")
	{
		users.POST("/register", controllers.Register(cfg))
		users.POST("/login", controllers.Login(cfg))

		users.GET("/profile", auth, controllers.Profile(cfg))

		users.GET("", auth, adminOnly, controllers.ListUsers(cfg))
		users.GET("/pending-approvals", auth, adminOnly, controllers.PendingApprovals(cfg))
		users.GET("/:id", auth, adminOnly, controllers.GetUser(cfg))
		users.PUT("/approve/:userId", auth, adminOnly, controllers.ApproveUser(cfg))
		users.PUT("/reject/:userId", auth, adminOnly, controllers.RejectUser(cfg))
		users.PATCH("/:id", auth, adminOnly, controllers.UpdateUser(cfg))
		users.DELETE("/delete/:id", auth, adminOnly, controllers.DeleteUser(cfg))
	}

	// events + enrollment
	events := r.Group("/events")
	{
		events.GET("", controllers.ListEvents(cfg))
		events.GET("/:eventId", controllers.GetEvent(cfg))

		events.POST("", auth, adminOnly, controllers.CreateEvent(cfg))
		events.PUT("/:eventId", auth, adminOnly, controllers.UpdateEvent(cfg))
		events.DELETE("/:eventId", auth, adminOnly, controllers.DeleteEvent(cfg))

		events.POST("/:eventId/participants", auth, controllers.JoinEvent(cfg))
		events.DELETE("/:eventId/participants", auth, adminOnly, controllers.RemoveEventParticipant(cfg))
		events.GET("/:eventId/getallparticipants", auth, adminOnly, controllers.ListEventParticipants(cfg))
	}

	// programs + enrollment
	programs := r.Group("/programs")
	{
		programs.GET("", controllers.ListPrograms(cfg))
		programs.GET("/:programId", controllers.GetProgram(cfg))

		programs.POST("", auth, adminOnly, controllers.CreateProgram(cfg))
		programs.PUT("/:programId", auth, adminOnly, controllers.UpdateProgram(cfg))
		programs.DELETE("/:programId", auth, adminOnly, controllers.DeleteProgram(cfg))

		programs.POST("/add/:programId/participants", auth, controllers.JoinProgram(cfg))
		programs.DELETE("/:programId/deleteparticipants", auth, adminOnly, controllers.RemoveProgramParticipant(cfg))
		programs.GET("/:programId/getallparticipants", auth, adminOnly, controllers.ListProgramParticipants(cfg))
	}

	// gallery
	gallery := r.Group("/gallery")
	{
		gallery.GET("", controllers.ListGallery(cfg))
		gallery.POST("", auth, adminOnly, controllers.CreateGalleryItem(cfg))
		gallery.PUT("/:id", auth, adminOnly, controllers.UpdateGalleryItem(cfg))
		gallery.DELETE("/:id", auth, adminOnly, controllers.DeleteGalleryItem(cfg))
	}

	// blogs
	blogs := r.Group("/blogs")
	{
		blogs.GET("", controllers.ListBlogs(cfg))
		blogs.GET("/:id", controllers.GetBlog(cfg))
		blogs.POST("", auth, adminOnly, controllers.CreateBlog(cfg))
		blogs.PUT("/:id", auth, adminOnly, controllers.UpdateBlog(cfg))
		blogs.DELETE("/:id", auth, adminOnly, controllers.DeleteBlog(cfg))
	}

	// podcasts
	podcasts := r.Group("/podcasts")
	{
		podcasts.GET("", controllers.ListPodcasts(cfg))
		podcasts.GET("/:id", controllers.GetPodcast(cfg))
		podcasts.POST("", auth, adminOnly, controllers.CreatePodcast(cfg))
		podcasts.PUT("/:id", auth, adminOnly, controllers.UpdatePodcast(cfg))
		podcasts.DELETE("/:id", auth, adminOnly, controllers.DeletePodcast(cfg))
	}

	// team
	team := r.Group("/team")
	{
		team.GET("", controllers.ListTeam(cfg))
		team.POST("", auth, adminOnly, controllers.CreateTeamMember(cfg))
		team.PUT("/:id", auth, adminOnly, controllers.UpdateTeamMember(cfg))
		team.DELETE("/:id", auth, adminOnly, controllers.DeleteTeamMember(cfg))
	}

	// awareness campaigns
	awareness := r.Group("/awareness")
	{
		awareness.GET("", controllers.ListAwareness(cfg))
		awareness.POST("", auth, adminOnly, controllers.CreateAwareness(cfg))
		awareness.PUT("/:id", auth, adminOnly, controllers.UpdateAwareness(cfg))
		awareness.DELETE("/:id", auth, adminOnly, controllers.DeleteAwareness(cfg))
	}

	// jobs
	jobs := r.Group("/jobs")
	{
		jobs.GET("", controllers.ListJobs(cfg))
		jobs.GET("/:id", controllers.GetJob(cfg))
		jobs.POST("", auth, adminOnly, controllers.CreateJob(cfg))
		jobs.PUT("/:id", auth, adminOnly, controllers.UpdateJob(cfg))
		jobs.DELETE("/:id", auth, adminOnly, controllers.DeleteJob(cfg))
	}

	// donations
	donations := r.Group("/donations")
	{
		donations.POST("", controllers.CreateDonation(cfg))
		donations.GET("", auth, adminOnly, controllers.ListDonations(cfg))
		donations.GET("/:id", auth, adminOnly, controllers.GetDonation(cfg))
		donations.PATCH("/:id", auth, adminOnly, controllers.UpdateDonation(cfg))
		donations.DELETE("/:id", auth, adminOnly, controllers.DeleteDonation(cfg))
	}

	// success stories
	stories := r.Group("/successstories")
	{
		stories.GET("", controllers.ListSuccessStories(cfg))
		stories.POST("", auth, adminOnly, controllers.CreateSuccessStory(cfg))
		stories.PUT("/:id", auth, adminOnly, controllers.UpdateSuccessStory(cfg))
		stories.DELETE("/:id", auth, adminOnly, controllers.DeleteSuccessStory(cfg))
	}
}
