package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ByLCY/newsletter/buildinfo"
	"github.com/ByLCY/newsletter/content"
	"github.com/ByLCY/newsletter/pipeline"
	"github.com/ByLCY/newsletter/typeset"
)

// pdfBytes 以数字数组形式序列化，与前端读取的 {pdf:{data:[...]}} 结构一致。
type pdfBytes []byte

func (b pdfBytes) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, len(b)*4+2)
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']'), nil
}

type typesetResponse struct {
	PDF struct {
		Data pdfBytes `json:"data"`
	} `json:"pdf"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// handleTypeset 接收 JSON 文档并交给远程 LaTeX 编译；任何失败都以 500 {error} 返回。
func (s *Server) handleTypeset(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)

	var doc typeset.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		logger.Error("解析请求体失败", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	logger.Info("生成新闻稿 PDF", "title", doc.Title)

	out, err := s.runner.Typeset(r.Context(), doc.Newsletter())
	if err != nil {
		logger.Error("generate-newsletter-pdf 失败", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	var resp typesetResponse
	resp.PDF.Data = out.Data
	writeJSON(w, http.StatusOK, resp)
}

// handleRender 接收编辑器表单，本地排版后以附件返回。
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid form: %v", err)})
		return
	}
	n, err := newsletterFromForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	opts := pipeline.Options{
		Backend: r.FormValue("backend"),
		Format:  r.FormValue("format"),
	}

	out, err := s.runner.Direct(r.Context(), n, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		logger.Error("render 失败", "status", status, "err", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		logger.Warn("写出响应失败", "err", err)
	}
}

func isClientError(err error) bool {
	return errors.Is(err, content.ErrMissingContent) ||
		errors.Is(err, content.ErrInvalidImage) ||
		errors.Is(err, pipeline.ErrUnsupported)
}

// newsletterFromForm 读取表单字段，未提交的标题保留默认值。
func newsletterFromForm(r *http.Request) (content.Newsletter, error) {
	n := content.New()
	set := func(dst *string, key string) {
		if _, ok := r.MultipartForm.Value[key]; ok {
			*dst = r.FormValue(key)
		}
	}
	set(&n.Title, "title")
	set(&n.News1Title, "news1Title")
	set(&n.News1Content, "news1Content")
	set(&n.News2Title, "news2Title")
	set(&n.News2Content, "news2Content")
	set(&n.OfficeNewsTitle, "officeNewsTitle")
	set(&n.OfficeNewsContent, "officeNewsContent")

	var err error
	if n.News1Image, err = formImage(r, "news1Image"); err != nil {
		return n, err
	}
	if n.News2Image, err = formImage(r, "news2Image"); err != nil {
		return n, err
	}
	return n, nil
}

func formImage(r *http.Request, field string) (*content.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()
	return readUpload(file, header)
}

func readUpload(file multipart.File, header *multipart.FileHeader) (*content.Upload, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件 %s 失败: %w", header.Filename, err)
	}
	return &content.Upload{Name: header.Filename, Data: data}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
