package controllers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/fsdevblog/popuplink/internal/models"
	"github.com/fsdevblog/popuplink/internal/popup"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/fsdevblog/popuplink/internal/services"
	"github.com/fsdevblog/popuplink/internal/visits"
	"github.com/gin-gonic/gin"
)

// ResolveController посетительская часть: страница короткой ссылки и
// жизненный цикл визита (показ попапа, клики, уход со страницы).
type ResolveController struct {
	resolver LinkResolver
	counters CounterIncrementer
	visits   *visits.Registry
}

func NewResolveController(resolver LinkResolver, counters CounterIncrementer, registry *visits.Registry) *ResolveController {
	return &ResolveController{
		resolver: resolver,
		counters: counters,
		visits:   registry,
	}
}

// publicLink публичное представление записи. Счетчики, владелец и is_active
// посетителю не отдаются.
type publicLink struct {
	ShortCode      string          `json:"shortCode"`
	DestinationURL string          `json:"destinationUrl"`
	PopupMessage   string          `json:"popupMessage"`
	ButtonLabel    string          `json:"buttonLabel"`
	ButtonURL      string          `json:"buttonUrl"`
	Position       models.Position `json:"position"`
	DelaySeconds   float64         `json:"delaySeconds"`
	Shape          models.Shape    `json:"shape"`
	Size           models.Size     `json:"size"`
	CustomWidth    *int            `json:"customWidth,omitempty"`
	CustomHeight   *int            `json:"customHeight,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
}

func newPublicLink(l *models.Link) publicLink {
	return publicLink{
		ShortCode:      l.ShortCode,
		DestinationURL: l.DestinationURL,
		PopupMessage:   l.PopupMessage,
		ButtonLabel:    l.ButtonLabel,
		ButtonURL:      l.ButtonURL,
		Position:       l.Position,
		DelaySeconds:   l.DelaySeconds,
		Shape:          l.Shape,
		Size:           l.Size,
		CustomWidth:    l.CustomWidth,
		CustomHeight:   l.CustomHeight,
		ImageURL:       l.ImageURL,
	}
}

// Show отдает страницу перехода: iframe с целевым сайтом и попап,
// появляющийся по таймеру визита.
func (c *ResolveController) Show(ctx *gin.Context) {
	link, err := c.resolver.Resolve(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			ctx.HTML(http.StatusNotFound, "notfound.tmpl", gin.H{})
			return
		}
		ctx.String(http.StatusInternalServerError, ErrInternal.Error())
		return
	}

	v := c.visits.Open(link)

	ctx.HTML(http.StatusOK, "resolve.tmpl", gin.H{
		"Title":       link.PopupMessage,
		"Link":        link,
		"VisitID":     v.ID,
		"CustomStyle": customStyle(link),
	})
}

// ShowJSON отдает резолюцию в JSON для клиентского рендеринга.
// Просмотр засчитывается так же, как и у HTML страницы.
func (c *ResolveController) ShowJSON(ctx *gin.Context) {
	link, err := c.resolver.Resolve(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternal.Error()})
		return
	}

	v := c.visits.Open(link)

	ctx.JSON(http.StatusOK, gin.H{
		"link":    newPublicLink(link),
		"visitId": v.ID,
	})
}

// OpenVisit регистрирует визит по коду. Засчитывает просмотр.
func (c *ResolveController) OpenVisit(ctx *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	link, err := c.resolver.Resolve(ctx.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternal.Error()})
		return
	}

	v := c.visits.Open(link)
	ctx.JSON(http.StatusCreated, gin.H{
		"visitId":      v.ID,
		"state":        v.Scheduler.State().String(),
		"delaySeconds": link.DelaySeconds,
	})
}

// VisitState текущее состояние показа попапа визита.
func (c *ResolveController) VisitState(ctx *gin.Context) {
	v, err := c.visits.Get(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"state": v.Scheduler.State().String()})
}

// DismissPopup закрытие попапа посетителем.
func (c *ResolveController) DismissPopup(ctx *gin.Context) {
	v, err := c.visits.Get(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
		return
	}
	if dismissErr := v.Scheduler.Dismiss(); dismissErr != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "popup is not visible"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ButtonClick клик по кнопке попапа: счетчик и адрес перехода.
func (c *ResolveController) ButtonClick(ctx *gin.Context) {
	c.activate(ctx, repositories.CounterButtonClick, func(l *models.Link) string {
		return l.ButtonURL
	})
}

// LinkClick клик по самой ссылке из попапа.
func (c *ResolveController) LinkClick(ctx *gin.Context) {
	c.activate(ctx, repositories.CounterLinkClick, func(l *models.Link) string {
		return l.DestinationURL
	})
}

// CloseVisit уход посетителя со страницы: ожидающий таймер отменяется,
// попап после закрытия визита не появится.
func (c *ResolveController) CloseVisit(ctx *gin.Context) {
	if err := c.visits.Close(ctx.Param("id")); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// activate общий путь активации из видимого попапа: инкремент счетчика и
// URL перехода. Активация не меняет состояние машины показа.
func (c *ResolveController) activate(ctx *gin.Context, kind repositories.CounterKind, target func(*models.Link) string) {
	v, err := c.visits.Get(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
		return
	}
	if v.Scheduler.State() != popup.StateVisible {
		ctx.JSON(http.StatusConflict, gin.H{"error": "popup is not visible"})
		return
	}

	// Потерянный инкремент не должен ломать переход посетителя.
	if incErr := c.counters.Increment(ctx.Request.Context(), v.Link.ShortCode, kind); incErr != nil {
		_ = ctx.Error(incErr)
	}

	ctx.JSON(http.StatusOK, gin.H{"url": target(v.Link)})
}

// customStyle инлайн-габариты для кастомного размера попапа.
func customStyle(l *models.Link) template.CSS {
	if l.Size != models.SizeCustom || l.CustomWidth == nil || l.CustomHeight == nil {
		return ""
	}
	return template.CSS(fmt.Sprintf("width: %dpx; height: %dpx;", *l.CustomWidth, *l.CustomHeight)) //nolint:gosec
}
