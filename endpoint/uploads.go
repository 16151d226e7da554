package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/util"
)

// ServeUpload godoc
// @Summary      Fetch an uploaded prescription file
// @Description  Serve a stored file by name from the upload directory. No authentication is required; anyone holding a stored name can fetch it.
// @Tags         Uploads
// @Produce      octet-stream
// @Param        filename path string true "Stored file name"
// @Success      200 {file} binary "File contents"
// @Failure      404 {object} util.APIResponse "File not found"
// @Router       /uploads/{filename} [get]
func ServeUpload(c *gin.Context) {
	fs, ok := getFileStoreOrRespond(c)
	if !ok {
		return
	}

	filename := c.Param("filename")
	if !fs.Exists(filename) {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "File not found",
			Err: fmt.Errorf("no stored file named %s", filename),
		})
		return
	}

	c.File(fs.Path(filename))
}
