package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// LoadError 样本表加载失败：文件不可读、工作表缺失或必需列缺失
// 加载失败不产出任何部分结果
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("加载航班样本 %s 失败: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReadTable 按扩展名读取样本表为DataFrame，所有列按字符串读入
// 类型解析延后到归一化阶段，避免读取时的隐式类型猜测吞掉缺失值
func ReadTable(path, sheetName, encoding string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path, sheetName)
	default:
		return readCSV(path, encoding)
	}
}

func readCSV(path, encoding string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开CSV文件失败: %w", err)
	}
	defer f.Close()

	r := charsetReader(f, encoding)

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析CSV失败: %w", df.Err)
	}
	return df, nil
}

func readXLSX(path, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开xlsx文件失败: %w", err)
	}

	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx文件中没有工作表")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 不存在", sheetName)
		}
		sheet = s
	}

	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为DataFrame
// 第一行为标题行，其余为数据行
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表为空")
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}
	if len(headers) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表缺少标题行")
	}

	records := make([][]string, 0, len(sheet.Rows))
	records = append(records, headers)
	for _, row := range sheet.Rows[1:] {
		record := make([]string, len(headers))
		for i, cell := range row.Cells {
			if i < len(headers) { // 忽略超出标题范围的单元格
				record[i] = cell.Value
			}
		}
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("转换工作表失败: %w", df.Err)
	}
	return df, nil
}

// charsetReader GBK/GB2312编码的样本文件转UTF-8读取
func charsetReader(f *os.File, encoding string) io.Reader {
	switch strings.ToLower(encoding) {
	case "gbk", "gb2312":
		return transform.NewReader(f, simplifiedchinese.GBK.NewDecoder())
	default:
		return f
	}
}
