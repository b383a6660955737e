package api

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// adapt3 and adapt5 adapt a plain Go handler into a gin.HandlerFunc.
// This debug API is JSON-only and every handler either takes no args or
// binds uri/query params, so only those two shapes exist.

// adapt3 adapts a handler taking no bound args and returning (value, error).
func adapt3[T any](fn func(*gin.Context) (T, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := fn(ctx)
		if err != nil {
			renderError(ctx, err)
			return
		}
		renderResponse(ctx, result)
	}
}

// adapt5 adapts a handler taking uri/query-bound args and returning
// (value, error).
func adapt5[TArgs any, TResp any](fn func(*gin.Context, *TArgs) (TResp, error)) gin.HandlerFunc {
	var argsType TArgs
	argsTypeValue := reflect.TypeOf(argsType)

	return func(ctx *gin.Context) {
		argsValue := reflect.New(argsTypeValue)
		args := argsValue.Interface()

		if err := bindArgs(ctx, args); err != nil {
			renderError(ctx, newHTTPError(http.StatusBadRequest, err.Error()))
			return
		}

		result, err := fn(ctx, args.(*TArgs))
		if err != nil {
			renderError(ctx, err)
			return
		}
		renderResponse(ctx, result)
	}
}

// bindArgs binds uri params then query params; every handler args struct
// in this package only declares `uri:"..."` tags today, but query is
// tried too so a future list endpoint can add filters without a new
// adapter.
func bindArgs(ctx *gin.Context, args any) error {
	if err := ctx.ShouldBindUri(args); err != nil {
		return err
	}
	return ctx.ShouldBindQuery(args)
}

func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// renderError reports httpError and core.StatusError-flavored errors with
// their proper status; anything else is a bug and surfaces as a 500.
func renderError(ctx *gin.Context, err error) {
	if he, ok := err.(*httpError); ok {
		ctx.JSON(he.Status, he)
		return
	}
	ctx.JSON(httpStatusFor(err), gin.H{"message": err.Error()})
}
