package usecase

import "errors"

var (
	// フィードに無い商品ID
	ErrProductNotFound = errors.New("product not found")

	// 明細0件でチェックアウトしようとした
	ErrEmptyCart = errors.New("cart is empty")

	// 明細の数量・価格が負
	ErrInvalidItem = errors.New("invalid item")

	// 前回のチェックアウトがまだ終わっていない
	ErrCheckoutInProgress = errors.New("checkout already in progress")

	// サーバーがURLを返さなかった
	ErrCheckoutFailed = errors.New("checkout failed")

	// 保存済みカートが壊れている
	ErrCorruptSnapshot = errors.New("corrupt cart snapshot")
)
