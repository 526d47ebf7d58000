package service

import "errors"

// 错误信息直接作为页面提示展示给用户
var (
	ErrVideoNotFound = errors.New("존재하지 않는 동영상입니다.")
	ErrFileNotFound  = errors.New("파일을 찾을 수 없습니다.")
	ErrNoUploadFile  = errors.New("업로드할 파일이 없습니다.")
	ErrEmptyFilename = errors.New("파일을 선택해주세요.")
	ErrEmptyComment  = errors.New("댓글 내용을 입력해주세요.")
)
